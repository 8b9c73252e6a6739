package qa

import "strings"

// commentDelim separates accumulated findings inside the comment cell.
const commentDelim = " | "

// findings accumulates structured per-row finding messages during one
// chunk. Messages stay a list until the output boundary, where they are
// flattened into the single comment cell; order is check execution order.
type findings struct {
	notes map[int][]string // keyed by table row index
}

func newFindings() *findings {
	return &findings{notes: make(map[int][]string)}
}

func (f *findings) add(row int, msg string) {
	f.notes[row] = append(f.notes[row], msg)
}

func (f *findings) addAll(rows []int, msg string) {
	for _, r := range rows {
		f.add(r, msg)
	}
}

// comment flattens a row's findings, prefixed by the seed comment carried
// over from an input "Automated QA Comment" column (empty when none).
func (f *findings) comment(row int, seed string) string {
	notes := f.notes[row]
	if seed == "" {
		return strings.Join(notes, commentDelim)
	}
	if len(notes) == 0 {
		return seed
	}
	return seed + commentDelim + strings.Join(notes, commentDelim)
}
