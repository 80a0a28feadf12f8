// Code generated by hand. DO NOT EDIT.

package generated

func inc(a int) int {
	b := a + 1
	return b
}
