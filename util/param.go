package util

// Param is a single published key/value pair
type Param struct {
	Key string
	Val interface{}
}

// UniqueID returns the parameter's cache key
func (p Param) UniqueID() string {
	return p.Key
}
