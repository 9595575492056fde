// Package format lays out token trees as readable source text.
//
// Назначение: печать развёрнутых модулей (expand) с отступами по глубине
// фигурных скобок, атрибутами на отдельных строках и сохранёнными комментариями.
// Не делает: разбора языка хоста, переноса длинных строк, IO.
// Зависимости: internal/tree, internal/token.
package format
