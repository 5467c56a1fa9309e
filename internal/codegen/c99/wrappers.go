package c99

import (
	"fmt"
)

// ensureArrayWrapper returns the C struct name wrapping a fixed-size
// array of n elemCType, emitting its definition into the wrapper buffer
// the first time this (element, size) pair is needed. C cannot return
// or assign a bare array by value, so every array that crosses a
// function return boundary is carried inside one of these one-field
// wrapper structs instead.
func (c *Context) ensureArrayWrapper(elemCType string, n int) string {
	name := fmt.Sprintf("uya_array_%s_%d", typeIdentFragment(elemCType), n)
	if !c.arrayWrapperEmitted[name] {
		c.arrayWrapperEmitted[name] = true
		fmt.Fprintf(&c.structDefBuf, "struct %s {\n  %s data[%d];\n};\n\n", name, elemCType, n)
	}
	return "struct " + name
}

// ensureSliceStruct returns the (pointer, length) view struct name for
// a slice of elemCType.
func (c *Context) ensureSliceStruct(elemCType string) string {
	name := "uya_slice_" + typeIdentFragment(elemCType)
	if !c.sliceEmitted[name] {
		c.sliceEmitted[name] = true
		fmt.Fprintf(&c.structDefBuf, "struct %s {\n  %s *ptr;\n  size_t len;\n};\n\n", name, elemCType)
	}
	return "struct " + name
}

// ensureErrorUnionStruct returns the `{error_id, value}` sum-type struct
// name carrying a payloadCType result or an error id. An error id of 0 means "no error"; the payload field is
// only meaningful when error_id == 0.
func (c *Context) ensureErrorUnionStruct(payloadCType string) string {
	name := "err_union_" + typeIdentFragment(payloadCType)
	if !c.errorUnionEmitted[name] {
		c.errorUnionEmitted[name] = true
		if payloadCType == "void" {
			fmt.Fprintf(&c.structDefBuf, "struct %s {\n  uint32_t error_id;\n};\n\n", name)
		} else {
			fmt.Fprintf(&c.structDefBuf, "struct %s {\n  uint32_t error_id;\n  %s value;\n};\n\n", name, payloadCType)
		}
	}
	return "struct " + name
}
