package tracing

import "fmt"

// Context identifies a single control API request in logs.
type Context struct {
	RequestID     string
	RequestSource string
}

func (c Context) String() string {
	return fmt.Sprintf("[%s from %s]", c.RequestID, c.RequestSource)
}
