package frame

// Allocator issues strictly increasing sequence numbers for one frame array.
// The zero value starts at 0.
type Allocator struct {
	next int
}

// Next returns the next sequence number.
func (a *Allocator) Next() int {
	n := a.next
	a.next++
	return n
}

// Peek returns the number the next call to Next will return.
func (a *Allocator) Peek() int {
	return a.next
}
