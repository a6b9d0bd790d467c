package request

// Query and form field names shared by the handlers and the rendered links.
const (
	FieldMode      = "mode"
	FieldQuery     = "q"
	FieldSubject   = "s"
	FieldUnmatched = "unmatched"
	FieldPage      = "page"
	FieldPageSize  = "page_size"
	FieldWrap      = "wrap"

	FieldGroup     = "group"
	FieldScrollTop = "scroll_top"
	FieldQueryID   = "query"

	FieldURL       = "url"
	FieldLoadParam = "p"
	FieldContent   = "content"
	FieldDocument  = "id"
)

// PageSizes are the choices offered by the page size menu.
var PageSizes = []int{10, 25, 50, 100}

// WrapChars are the choices offered for subject grouping. "" groups by the
// full query name.
var WrapChars = []string{"", "_", "-", ".", "|"}
