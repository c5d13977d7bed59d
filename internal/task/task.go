// Package task parses and represents single lines of the todo.txt format.
//
// The raw line is always the source of truth: every structured field is
// derived from it, and every mutation rewrites the line and parses it again.
package task

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the date layout used by todo.txt.
const DateFormat = "2006-01-02"

var (
	completePattern = regexp.MustCompile(`^x\s+`)
	datePattern     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:\s+|$)`)
	priorityPattern = regexp.MustCompile(`^\(([A-Z])\)(?:\s+|$)`)
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// Today returns local midnight of the current day.
func Today() time.Time {
	n := nowFunc()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.Local)
}

// Task is one todo.txt line.
type Task struct {
	id   string
	text string

	// body is the line without completion marker, dates and priority prefix
	body string

	priority       rune
	contexts       []string
	projects       []string
	keyValues      map[string]string
	dueDate        *time.Time
	threshold      *time.Time
	isComplete     bool
	completionDate *time.Time
	creationDate   *time.Time

	// priToken is set when the priority was read from a pri: token
	priToken bool

	onModified func(*Task)
}

// New parses a line into a Task. Parsing never fails: tokens that cannot be
// understood are simply left in the text.
func New(text string) *Task {
	t := &Task{id: uuid.New().String()}
	t.parse(text)
	return t
}

// ID is a process-local identity. It distinguishes duplicate lines and is
// never written to disk.
func (t *Task) ID() string { return t.id }

// Text returns the raw line.
func (t *Task) Text() string { return t.text }

// String implements fmt.Stringer.
func (t *Task) String() string { return t.text }

// Priority returns the priority letter, or 0 when the task has none.
func (t *Task) Priority() rune { return t.priority }

// Contexts returns the @context tags in order of first appearance.
func (t *Task) Contexts() []string { return slices.Clone(t.contexts) }

// Projects returns the +project tags in order of first appearance.
func (t *Task) Projects() []string { return slices.Clone(t.projects) }

// HasContext reports whether the task is tagged with @name.
func (t *Task) HasContext(name string) bool { return slices.Contains(t.contexts, name) }

// HasProject reports whether the task is tagged with +name.
func (t *Task) HasProject(name string) bool { return slices.Contains(t.projects, name) }

// Value returns the value of a key:value token.
func (t *Task) Value(key string) (string, bool) {
	v, ok := t.keyValues[key]
	return v, ok
}

// DueDate returns the date from due:YYYY-MM-DD, or nil.
func (t *Task) DueDate() *time.Time { return t.dueDate }

// Threshold returns the date from t:YYYY-MM-DD, or nil.
func (t *Task) Threshold() *time.Time { return t.threshold }

// IsComplete reports whether the line starts with the "x " marker.
func (t *Task) IsComplete() bool { return t.isComplete }

// CompletionDate returns the date following the completion marker, or nil.
func (t *Task) CompletionDate() *time.Time { return t.completionDate }

// CreationDate returns the creation date, or nil.
func (t *Task) CreationDate() *time.Time { return t.creationDate }

// OnModified registers the function called after every change to the task.
// Only one hook is kept; the owner of the task store installs it.
func (t *Task) OnModified(fn func(*Task)) {
	t.onModified = fn
}

// SetText replaces the line and re-derives every field. The modified hook
// fires only when the text actually changes.
func (t *Task) SetText(text string) {
	text = strings.TrimSpace(text)
	if text == t.text {
		return
	}
	t.parse(text)
	if t.onModified != nil {
		t.onModified(t)
	}
}

// SetComplete marks the task done or not done. Completing stamps today's
// date and keeps the priority as a pri: token; reopening clears the date and
// restores the priority prefix.
func (t *Task) SetComplete(complete bool) {
	if complete == t.isComplete {
		return
	}
	c := t.clone()
	c.isComplete = complete
	if complete {
		today := Today()
		c.completionDate = &today
	} else {
		c.completionDate = nil
	}
	t.SetText(c.Format())
}

// ToggleComplete flips the completion state.
func (t *Task) ToggleComplete() {
	t.SetComplete(!t.isComplete)
}

// SetPriority sets the priority letter. A zero rune clears it; anything other
// than 'A'..'Z' is ignored.
func (t *Task) SetPriority(p rune) {
	if p != 0 && (p < 'A' || p > 'Z') {
		return
	}
	c := t.clone()
	c.priority = p
	t.SetText(c.Format())
}

// SetDueDate replaces the due: token. A nil date removes it.
func (t *Task) SetDueDate(d *time.Time) {
	c := t.clone()
	c.body = removeKey(c.body, "due")
	if d != nil {
		c.body = strings.TrimSpace(c.body + " due:" + d.Format(DateFormat))
	}
	t.SetText(c.Format())
}

// Format serializes the structured fields back into a todo.txt line. The
// result parses to the same fields as the task, though whitespace and token
// placement may differ from the original text.
func (t *Task) Format() string {
	var parts []string
	body := t.body
	if t.isComplete || t.priToken {
		body = removeKey(body, "pri")
	}

	if t.isComplete {
		parts = append(parts, "x")
		if t.completionDate != nil {
			parts = append(parts, t.completionDate.Format(DateFormat))
		}
		if t.creationDate != nil {
			parts = append(parts, t.creationDate.Format(DateFormat))
		}
		if body != "" {
			parts = append(parts, body)
		}
		if t.priority != 0 {
			parts = append(parts, "pri:"+string(t.priority))
		}
		return strings.Join(parts, " ")
	}

	if t.priority != 0 {
		parts = append(parts, "("+string(t.priority)+")")
	}
	if t.creationDate != nil {
		parts = append(parts, t.creationDate.Format(DateFormat))
	}
	if body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, " ")
}

func (t *Task) clone() *Task {
	c := *t
	c.onModified = nil
	return &c
}

func (t *Task) parse(text string) {
	text = strings.TrimSpace(text)
	t.text = text
	t.priority = 0
	t.contexts = nil
	t.projects = nil
	t.keyValues = nil
	t.dueDate = nil
	t.threshold = nil
	t.isComplete = false
	t.completionDate = nil
	t.creationDate = nil
	t.priToken = false

	rest := text
	if loc := completePattern.FindStringIndex(rest); loc != nil {
		t.isComplete = true
		rest = rest[loc[1]:]
		var ok bool
		if t.completionDate, rest, ok = leadingDate(rest); ok {
			t.creationDate, rest, _ = leadingDate(rest)
		}
	} else {
		if m := priorityPattern.FindStringSubmatchIndex(rest); m != nil {
			t.priority = rune(rest[m[2]])
			rest = rest[m[1]:]
		}
		t.creationDate, rest, _ = leadingDate(rest)
	}
	t.body = strings.TrimSpace(rest)

	for _, tok := range strings.Fields(t.body) {
		switch {
		case len(tok) > 1 && tok[0] == '@':
			if !slices.Contains(t.contexts, tok[1:]) {
				t.contexts = append(t.contexts, tok[1:])
			}
		case len(tok) > 1 && tok[0] == '+':
			if !slices.Contains(t.projects, tok[1:]) {
				t.projects = append(t.projects, tok[1:])
			}
		default:
			key, value, ok := splitKeyValue(tok)
			if !ok {
				continue
			}
			if t.keyValues == nil {
				t.keyValues = make(map[string]string)
			}
			t.keyValues[key] = value
			switch key {
			case "due":
				t.dueDate = parseDate(value)
			case "t":
				t.threshold = parseDate(value)
			case "pri":
				if t.isComplete && len(value) == 1 && value[0] >= 'A' && value[0] <= 'Z' {
					t.priority = rune(value[0])
					t.priToken = true
				}
			}
		}
	}
}

// leadingDate consumes a YYYY-MM-DD prefix. A prefix that looks like a date
// but is not a valid one is left in place.
func leadingDate(s string) (*time.Time, string, bool) {
	m := datePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, s, false
	}
	d := parseDate(s[m[2]:m[3]])
	if d == nil {
		return nil, s, false
	}
	return d, s[m[1]:], true
}

func parseDate(s string) *time.Time {
	d, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return nil
	}
	return &d
}

// splitKeyValue recognizes key:value tokens. URLs are not key:value pairs.
func splitKeyValue(tok string) (string, string, bool) {
	key, value, found := strings.Cut(tok, ":")
	if !found || key == "" || value == "" {
		return "", "", false
	}
	if strings.HasPrefix(value, "//") || strings.ContainsAny(key, "@+") {
		return "", "", false
	}
	return key, value, true
}

func removeKey(body, key string) string {
	prefix := key + ":"
	fields := strings.Fields(body)
	kept := fields[:0]
	for _, f := range fields {
		if strings.HasPrefix(f, prefix) && len(f) > len(prefix) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
