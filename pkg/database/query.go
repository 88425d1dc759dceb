package database

import (
	"fmt"
	"strings"
)

// conditions accumulates an AND-joined WHERE clause with positional arguments
type conditions struct {
	clause string
	args   []interface{}
}

// add appends a predicate. format receives the placeholder number of arg,
// use %[1]d to reference it more than once.
func (c *conditions) add(format string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clause += " AND " + fmt.Sprintf(format, len(c.args))
}

// next returns the placeholder for an extra argument appended after the predicates
func (c *conditions) next(arg interface{}) string {
	c.args = append(c.args, arg)
	return fmt.Sprintf("$%d", len(c.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern turns a user search term into a mid-string ILIKE pattern
// matching the term literally.
func searchPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
