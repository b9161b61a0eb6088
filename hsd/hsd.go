/*
 * hsd.go, part of gofnet.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * gofnet is developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package hsd reads and writes HSD (Human-friendly Structured Data), the input
//format of Fortnet and DFTB+.
//
//Only the subset of HSD that Fortnet inputs use is supported: nested blocks,
//scalar assignments and comments. Tags are case-insensitive.
package hsd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//Node is an HSD tag. A node has either a Value or Children. A node with
//neither is an empty block.
type Node struct {
	Name     string
	Value    interface{} //string, bool, int or float64
	Children []*Node
}

//NewBlock returns a node with the given name and children.
func NewBlock(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

//NewValue returns a node assigning v to name.
func NewValue(name string, v interface{}) *Node {
	return &Node{Name: name, Value: v}
}

//Add appends children to N and returns N.
func (N *Node) Add(children ...*Node) *Node {
	N.Children = append(N.Children, children...)
	return N
}

//Child returns the first direct child of N named name (case-insensitive), or nil.
func (N *Node) Child(name string) *Node {
	for _, c := range N.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

//Get follows path from N. It returns nil if any element is missing.
func (N *Node) Get(path ...string) *Node {
	cur := N
	for _, p := range path {
		if cur = cur.Child(p); cur == nil {
			return nil
		}
	}
	return cur
}

//String returns the value of the node as a string. Strings are returned as-is,
//bools as Yes/No.
func (N *Node) String() string {
	if N == nil {
		return ""
	}
	return formatScalar(N.Value)
}

//Bool interprets the node value as an HSD logical.
func (N *Node) Bool() (bool, error) {
	switch v := N.Value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
	}
	return false, Error{fmt.Sprintf("%s: value %v is not a logical", N.Name, N.Value), 0, []string{"Bool"}, true}
}

//Float interprets the node value as a real number.
func (N *Node) Float() (float64, error) {
	switch v := N.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, Error{fmt.Sprintf("%s: value %v is not a number", N.Name, N.Value), 0, []string{"Float"}, true}
}

//Marshal returns the HSD text for the children of root. root itself is the
//document and its name is not written. HSD has no escapes, so strings are written
//verbatim between double quotes, or single quotes if they contain a double quote.
//Strings with both kinds of quotes, or with line breaks, can't be written.
func Marshal(root *Node) ([]byte, error) {
	var b bytes.Buffer
	for _, c := range root.Children {
		if err := writeNode(&b, c, 0); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

//WriteFile writes root to the file name, in HSD format.
func WriteFile(name string, root *Node) error {
	data, err := Marshal(root)
	if err != nil {
		e := err.(Error)
		e.deco = e.Decorate("WriteFile")
		return e
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return Error{err.Error(), 0, []string{"os.WriteFile", "WriteFile"}, true}
	}
	return nil
}

func writeNode(b *bytes.Buffer, n *Node, level int) error {
	indent := strings.Repeat("  ", level)
	switch {
	case n.Value != nil:
		v, err := quoteScalar(n.Value)
		if err != nil {
			return Error{n.Name + ": " + err.Error(), 0, []string{"Marshal"}, true}
		}
		fmt.Fprintf(b, "%s%s = %s\n", indent, n.Name, v)
	case len(n.Children) == 0:
		fmt.Fprintf(b, "%s%s {}\n", indent, n.Name)
	default:
		fmt.Fprintf(b, "%s%s {\n", indent, n.Name)
		for _, c := range n.Children {
			if err := writeNode(b, c, level+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "%s}\n", indent)
	}
	return nil
}

//quoteScalar formats v for writing, with strings quoted.
func quoteScalar(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return formatScalar(v), nil
	}
	switch {
	case strings.ContainsAny(s, "\r\n"):
		return "", fmt.Errorf("string %q has a line break", s)
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	}
	return "", fmt.Errorf("string %q has both single and double quotes", s)
}

//formatScalar returns v as HSD text, without quotes.
func formatScalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'E', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

//Error is the error type for the hsd package. Line is 0 if the error is not
//related to a particular line.
type Error struct {
	message  string
	Line     int
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.Line > 0 {
		return fmt.Sprintf("hsd: line %d: %s", err.Line, err.message)
	}
	return "hsd: " + err.message
}

//Decorate adds dec to the decoration of the error and returns the decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical.
func (err Error) Critical() bool { return err.critical }
