package format

// Options controls layout.
type Options struct {
	IndentWidth  int
	UseTabs      bool
	DropComments bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}
