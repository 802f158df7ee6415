package pointer

func To[T any](v T) *T {
	return &v
}

func FromAny[T any](v *T) T {
	var result T
	if v != nil {
		result = *v
	}
	return result
}
