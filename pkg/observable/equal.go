package observable

import "reflect"

// Equal reports whether two property values are the same for change
// detection. Comparable values use ==, everything else reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeEquals(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// Identical reports identity for collection removal: == for comparable
// values and never for values that cannot be compared (slices, maps, funcs).
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return safeEquals(a, b)
}

// safeEquals guards against structs or arrays holding non-comparable
// interface fields, which panic at runtime under ==.
func safeEquals(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
