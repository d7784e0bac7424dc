// Copyright 2026 fusegraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gomlx/fusegraph/ir"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// parseGraph reads the small textual graph description this demonstration
// CLI accepts and builds an *ir.Graph from it. The grammar, one statement
// per line:
//
//	# a comment
//	param %0 : f32[3,4]@0
//	%1 = add(%0, %0) : f32[3,4]@0
//	return %1
//
// This is not part of the pass's public interface (§6 says the pass has no
// persisted state or CLI); it exists purely so this demonstration command
// has something to load.
func parseGraph(name string, r io.Reader) (*ir.Graph, error) {
	g := ir.NewGraph(name)
	values := make(map[string]ir.Value)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseLine(g, values, line); err != nil {
			return nil, errors.Wrapf(err, "%s:%d: %q", name, lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading graph description")
	}
	return g, nil
}

var (
	paramRE = regexp.MustCompile(`^param\s+(%\w+)\s*:\s*(\S+)$`)
	nodeRE  = regexp.MustCompile(`^(%\w+)\s*=\s*(\w+)\(([^)]*)\)\s*:\s*(\S+)$`)
	retRE   = regexp.MustCompile(`^return\s+(.*)$`)
	typeRE  = regexp.MustCompile(`^([a-zA-Z0-9]+)\[([0-9,]*)\]@(host|\d+)$`)
)

func parseLine(g *ir.Graph, values map[string]ir.Value, line string) error {
	switch {
	case paramRE.MatchString(line):
		m := paramRE.FindStringSubmatch(line)
		typ, err := parseType(m[2])
		if err != nil {
			return err
		}
		values[m[1]] = g.AddParameter(typ)
		return nil

	case nodeRE.MatchString(line):
		m := nodeRE.FindStringSubmatch(line)
		dest, kindName, argsStr, typeStr := m[1], m[2], m[3], m[4]
		kind, ok := ir.ParseKindName(kindName)
		if !ok {
			return errors.Errorf("unknown op kind %q", kindName)
		}
		typ, err := parseType(typeStr)
		if err != nil {
			return err
		}
		n := g.Create(kind, 1)
		for _, argName := range splitArgs(argsStr) {
			arg, ok := values[argName]
			if !ok {
				return errors.Errorf("undefined value %q", argName)
			}
			n.AddInput(arg)
		}
		n.Output(0).SetType(typ)
		values[dest] = n.Output(0)
		return nil

	case retRE.MatchString(line):
		m := retRE.FindStringSubmatch(line)
		for _, name := range splitArgs(m[1]) {
			v, ok := values[name]
			if !ok {
				return errors.Errorf("undefined value %q in return", name)
			}
			g.RegisterOutput(v)
		}
		return nil

	default:
		return errors.Errorf("unrecognized statement")
	}
}

func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

var scalarTypes = map[string]dtypes.DType{
	"f16":  dtypes.Float16,
	"f32":  dtypes.Float32,
	"f64":  dtypes.Float64,
	"i32":  dtypes.Int32,
	"i64":  dtypes.Int64,
	"bool": dtypes.Bool,
}

func parseType(s string) (ir.TensorType, error) {
	m := typeRE.FindStringSubmatch(s)
	if m == nil {
		return ir.TensorType{}, errors.Errorf("malformed type %q", s)
	}
	scalar, ok := scalarTypes[m[1]]
	if !ok {
		return ir.TensorType{}, errors.Errorf("unknown scalar type %q", m[1])
	}
	var sizes []int
	if m[2] != "" {
		for _, d := range strings.Split(m[2], ",") {
			n, err := strconv.Atoi(d)
			if err != nil {
				return ir.TensorType{}, errors.Wrapf(err, "dimension %q", d)
			}
			sizes = append(sizes, n)
		}
	}
	device := ir.HostDevice
	if m[3] != "host" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return ir.TensorType{}, errors.Wrapf(err, "device %q", m[3])
		}
		device = n
	}
	return ir.NewTensorType(scalar, device, sizes...), nil
}
