package eval

// CommentEntry is the current body of one named comment.
type CommentEntry struct {
	Name string
	Body string
}

// commentTable holds named comment bodies in the order they were seeded.
type commentTable struct {
	bodies map[string]string
	order  []string
}

func newCommentTable() *commentTable {
	return &commentTable{bodies: make(map[string]string)}
}

func (t *commentTable) has(name string) bool {
	_, ok := t.bodies[name]
	return ok
}

func (t *commentTable) add(name, body string) {
	t.bodies[name] = body
	t.order = append(t.order, name)
}

func (t *commentTable) get(name string) (string, bool) {
	body, ok := t.bodies[name]
	return body, ok
}

// set overwrites an existing body. It reports false when name was never seeded.
func (t *commentTable) set(name, body string) bool {
	if !t.has(name) {
		return false
	}
	t.bodies[name] = body
	return true
}

func (t *commentTable) entries() []CommentEntry {
	out := make([]CommentEntry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, CommentEntry{Name: name, Body: t.bodies[name]})
	}
	return out
}
