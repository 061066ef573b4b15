package utils

// CycleEnum steps current by direction through the values 0..max, wrapping
// at both ends.
func CycleEnum[T ~int](current T, direction int, max T) T {
	return (current + T(direction%int(max+1)) + max + 1) % (max + 1)
}
