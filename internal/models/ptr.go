package models

// Ptr returns a pointer to v. Handy for building partial inputs.
func Ptr[T any](v T) *T {
	return &v
}
