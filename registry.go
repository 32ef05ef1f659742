package arrowmap

// Element constrains the mappings that may appear as the element of a
// sequence container. Membership is an explicit opt-in: a mapping joins the
// set by providing the ListElement marker, usually by embedding ListElem.
//
// Uint8 deliberately stays out of the set so that a byte sequence always
// resolves to the Binary representation and never to a list of bytes.
// Composite containers (List, LargeList, FixedList, NullableElement) carry
// the marker themselves but only instantiate for registered elements, which
// propagates membership through arbitrary nesting.
type Element[E any] interface {
	TypeMap[E]
	ListElement()
}

// ListElem registers the embedding mapping as a legal sequence element.
// Generated mappings for user-defined composite types embed it (or define an
// equivalent ListElement method) to allow slices of the composite.
type ListElem struct{}

// ListElement marks the mapping for use inside List, LargeList and FixedList.
func (ListElem) ListElement() {}
