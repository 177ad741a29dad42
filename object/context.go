package object

// Cell holds the value of one binding.
type Cell struct {
	Value any
}

// Context is one flat frame of bindings.
type Context map[string]*Cell

func NewContext() Context {
	return make(Context)
}

// Set binds (or rebinds) name in this frame.
func (c Context) Set(name string, value any) {
	c[name] = &Cell{Value: value}
}

func (c Context) Get(name string) (any, bool) {
	cell, ok := c[name]
	if !ok {
		return nil, false
	}
	return cell.Value, true
}
