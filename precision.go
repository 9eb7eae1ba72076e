package pmefft

// PrecisionOf returns "single" for complex64 and "double" for complex128.
func PrecisionOf[T Complex]() string {
	var zero T
	if _, ok := any(zero).(complex64); ok {
		return "single"
	}

	return "double"
}

// BuildPrecision names the precision selected for Grid at build time.
func BuildPrecision() string {
	return PrecisionOf[Grid]()
}
