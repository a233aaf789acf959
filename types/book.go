package types

// Book is a single bookshelf entry. The Book field is an opaque
// title/description string; the schema does not structure it further.
type Book struct {
	ID   int    `json:"id" db:"id"`
	Book string `json:"book" db:"book"`
}
