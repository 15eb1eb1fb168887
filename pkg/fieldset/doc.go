// Package fieldset holds a single form field declaration as an ordered bag of
// tagged JSON values. Key order is part of the rendering contract: compilers
// emit attributes in the order the author wrote them, so the bag never
// reorders, sorts, or drops keys.
package fieldset
