package classify

// DefaultTargetCategories returns the bird class indices of the
// ImageNet-1k vocabulary used by the default scorer model.
func DefaultTargetCategories() []int {
	return []int{
		7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 21, 22, 23, 24,
		80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95,
		96, 97, 98, 99, 100,
		127, 128, 129, 130, 131, 132, 133, 134, 135, 136, 137, 138, 139,
		140, 141, 142, 143, 144, 145, 146,
		448,
	}
}
