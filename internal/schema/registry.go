package schema

// Resource kinds served by the catalog API.
const (
	KindAuthors = "authors"
	KindPapers  = "papers"
)

// The registry below is built fresh on every call so callers can never
// mutate a shared definition.

// AuthorResponse is the shape of an author returned by the API.
func AuthorResponse() Object {
	return Object{
		Name: "Author",
		Fields: []Field{
			{Name: "id", Type: Integer, Required: true},
			{Name: "name", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "email", Type: String, Required: true, Rules: []Rule{Email}},
			{Name: "bio", Type: String, Nullable: true},
		},
	}
}

// AuthorList is the shape of GET /authors/.
func AuthorList() Array {
	return Array{Items: AuthorResponse()}
}

// AuthorCreate lists the fields a client may submit to create an author.
func AuthorCreate() Object {
	return Object{
		Name: "AuthorCreate",
		Fields: []Field{
			{Name: "name", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "email", Type: String, Required: true, Rules: []Rule{NonEmpty, Email}},
			{Name: "bio", Type: String, Nullable: true},
		},
	}
}

// PaperResponse is the shape of a paper returned by the API.
func PaperResponse() Object {
	return Object{
		Name: "Paper",
		Fields: []Field{
			{Name: "id", Type: Integer, Required: true},
			{Name: "title", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "doi", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "author_id", Type: Integer, Required: true},
			{Name: "abstract", Type: String, Nullable: true},
		},
	}
}

// PaperList is the shape of GET /papers/.
func PaperList() Array {
	return Array{Items: PaperResponse()}
}

// PaperCreate lists the fields a client may submit to create a paper.
func PaperCreate() Object {
	return Object{
		Name: "PaperCreate",
		Fields: []Field{
			{Name: "title", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "doi", Type: String, Required: true, Rules: []Rule{NonEmpty}},
			{Name: "author_id", Type: Integer, Required: true, Rules: []Rule{Positive}},
			{Name: "abstract", Type: String, Nullable: true},
		},
	}
}
