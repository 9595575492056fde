
// Package fuzztests houses Go fuzz harnesses for the expansion pipeline
// (source -> lexer -> tree -> driver). They look for panics, hangs and
// broken span invariants on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, сборку
// дерева и полное раскрытие шаблонов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/tree,
// internal/driver, internal/testkit.

package fuzztests
