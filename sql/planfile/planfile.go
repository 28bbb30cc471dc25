// Copyright 2023 Dolthub, Inc.
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

// Package planfile reads logical plans from YAML descriptions.
//
// A plan file holds a list of named plans. Every node is a map with a kind
// and the attributes of that kind. Unary nodes take their child from
// source, binary nodes from left and right:
//
//	plans:
//	  - name: q1
//	    root:
//	      kind: join
//	      criteria: ["a1 = b1"]
//	      left: {kind: scan, table: a, outputs: [a1]}
//	      right: {kind: scan, table: b, outputs: [b1]}
//
// Expressions are strings for symbol references, scalars for literals, or
// single key maps such as {gt: [a1, 5]} and {and: [...]}.
package planfile

import (
	"io/ioutil"
	"strings"

	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// ErrInvalidPlanFile is returned when a plan file cannot be decoded.
var ErrInvalidPlanFile = errors.NewKind("invalid plan file: %s")

// Plan is a named logical plan.
type Plan struct {
	Name string
	Root sql.Node
}

type fileSpec struct {
	Plans []planSpec `yaml:"plans"`
}

type planSpec struct {
	Name string    `yaml:"name"`
	Root *nodeSpec `yaml:"root"`
}

type nodeSpec struct {
	Kind string     `yaml:"kind"`
	ID   sql.NodeID `yaml:"id"`

	Source *nodeSpec `yaml:"source"`
	Left   *nodeSpec `yaml:"left"`
	Right  *nodeSpec `yaml:"right"`

	Table   string       `yaml:"table"`
	Outputs []sql.Symbol `yaml:"outputs"`

	Type         string      `yaml:"type"`
	Criteria     []string    `yaml:"criteria"`
	Filter       interface{} `yaml:"filter"`
	Distribution string      `yaml:"distribution"`

	SourceSymbol    sql.Symbol `yaml:"source-symbol"`
	FilteringSymbol sql.Symbol `yaml:"filtering-symbol"`
	Output          sql.Symbol `yaml:"output"`

	Predicate    interface{}     `yaml:"predicate"`
	Assignments  yaml.MapSlice   `yaml:"assignments"`
	GroupingKeys []sql.Symbol    `yaml:"grouping-keys"`
	Aggregates   yaml.MapSlice   `yaml:"aggregates"`
	Rows         [][]interface{} `yaml:"rows"`
	Target       string          `yaml:"target"`
	RowID        sql.Symbol      `yaml:"row-id"`
	Correlation  []sql.Symbol    `yaml:"correlation"`
}

// Load reads the plans of the given file.
func Load(path string) ([]Plan, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
	}
	return Parse(data)
}

// Parse decodes the plans of a plan file. Nodes without an explicit id get
// one after the largest explicit id of their plan.
func Parse(data []byte) ([]Plan, error) {
	var f fileSpec
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
	}
	if len(f.Plans) == 0 {
		return nil, ErrInvalidPlanFile.New("no plans")
	}

	plans := make([]Plan, len(f.Plans))
	names := make(map[string]struct{}, len(f.Plans))
	for i, p := range f.Plans {
		if p.Name == "" {
			return nil, ErrInvalidPlanFile.New("plan without name")
		}
		if _, ok := names[p.Name]; ok {
			return nil, ErrInvalidPlanFile.New("duplicate plan " + p.Name)
		}
		names[p.Name] = struct{}{}

		root, err := parseNode(p.Root)
		if err != nil {
			return nil, err
		}
		plans[i] = Plan{Name: p.Name, Root: root}
	}
	return plans, nil
}

// parseNode builds the plan rooted at the given node.
func parseNode(s *nodeSpec) (sql.Node, error) {
	if s == nil {
		return nil, ErrInvalidPlanFile.New("missing root node")
	}

	explicit := make(map[sql.NodeID]struct{})
	var last sql.NodeID
	if err := collectIDs(s, explicit, &last); err != nil {
		return nil, err
	}

	d := &decoder{ids: sql.NewNodeIDAllocatorFrom(last)}
	return d.node(s)
}

func collectIDs(s *nodeSpec, seen map[sql.NodeID]struct{}, last *sql.NodeID) error {
	if s == nil {
		return nil
	}
	if s.ID != 0 {
		if _, ok := seen[s.ID]; ok {
			return ErrInvalidPlanFile.New("duplicate node id " + s.ID.String())
		}
		seen[s.ID] = struct{}{}
		if s.ID > *last {
			*last = s.ID
		}
	}
	for _, child := range []*nodeSpec{s.Source, s.Left, s.Right} {
		if err := collectIDs(child, seen, last); err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	ids *sql.NodeIDAllocator
}

func (d *decoder) id(s *nodeSpec) sql.NodeID {
	if s.ID != 0 {
		return s.ID
	}
	return d.ids.NextID()
}

func (d *decoder) node(s *nodeSpec) (sql.Node, error) {
	if s == nil {
		return nil, ErrInvalidPlanFile.New("missing child node")
	}

	switch strings.ToLower(s.Kind) {
	case "scan":
		if s.Table == "" {
			return nil, ErrInvalidPlanFile.New("scan without table")
		}
		return plan.NewTableScan(d.id(s), s.Table, s.Outputs...), nil
	case "values":
		return d.values(s)
	case "filter":
		child, err := d.node(s.Source)
		if err != nil {
			return nil, err
		}
		predicate, err := Expression(s.Predicate)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(d.id(s), predicate, child), nil
	case "project":
		child, err := d.node(s.Source)
		if err != nil {
			return nil, err
		}
		assignments, err := parseAssignments(s.Assignments)
		if err != nil {
			return nil, err
		}
		return plan.NewProject(d.id(s), assignments, child), nil
	case "group-by":
		child, err := d.node(s.Source)
		if err != nil {
			return nil, err
		}
		aggregates, err := parseAssignments(s.Aggregates)
		if err != nil {
			return nil, err
		}
		return plan.NewGroupBy(d.id(s), s.GroupingKeys, aggregates, child), nil
	case "enforce-single-row":
		child, err := d.node(s.Source)
		if err != nil {
			return nil, err
		}
		return plan.NewEnforceSingleRow(d.id(s), child), nil
	case "delete":
		child, err := d.node(s.Source)
		if err != nil {
			return nil, err
		}
		return plan.NewDelete(d.id(s), child, plan.TableHandle(s.Target), s.RowID, s.Outputs...), nil
	case "join":
		return d.join(s)
	case "semi-join":
		return d.semiJoin(s)
	case "apply":
		left, right, err := d.binary(s)
		if err != nil {
			return nil, err
		}
		return plan.NewApply(d.id(s), left, right, s.Correlation...), nil
	case "":
		return nil, ErrInvalidPlanFile.New("node without kind")
	default:
		return nil, ErrInvalidPlanFile.New("unknown node kind " + s.Kind)
	}
}

func (d *decoder) binary(s *nodeSpec) (sql.Node, sql.Node, error) {
	left, err := d.node(s.Left)
	if err != nil {
		return nil, nil, err
	}
	right, err := d.node(s.Right)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (d *decoder) join(s *nodeSpec) (sql.Node, error) {
	left, right, err := d.binary(s)
	if err != nil {
		return nil, err
	}

	typ, err := parseJoinType(s.Type)
	if err != nil {
		return nil, err
	}

	criteria := make([]plan.EquiJoinClause, len(s.Criteria))
	for i, c := range s.Criteria {
		parts := strings.Split(c, "=")
		if len(parts) != 2 {
			return nil, ErrInvalidPlanFile.New("join criteria must look like left = right, got " + c)
		}
		criteria[i] = plan.EquiJoinClause{
			Left:  sql.Symbol(strings.TrimSpace(parts[0])),
			Right: sql.Symbol(strings.TrimSpace(parts[1])),
		}
	}

	filter := sql.None[sql.Expression]()
	if s.Filter != nil {
		f, err := Expression(s.Filter)
		if err != nil {
			return nil, err
		}
		filter = sql.Some(f)
	}

	distribution, err := parseDistribution(s.Distribution)
	if err != nil {
		return nil, err
	}

	return plan.NewJoin(d.id(s), typ, left, right, criteria, filter).WithDistribution(distribution), nil
}

func (d *decoder) semiJoin(s *nodeSpec) (sql.Node, error) {
	left, right, err := d.binary(s)
	if err != nil {
		return nil, err
	}
	if s.SourceSymbol == "" || s.FilteringSymbol == "" || s.Output == "" {
		return nil, ErrInvalidPlanFile.New("semi-join needs source-symbol, filtering-symbol and output")
	}

	distribution, err := parseDistribution(s.Distribution)
	if err != nil {
		return nil, err
	}

	return plan.NewSemiJoin(d.id(s), left, right, s.SourceSymbol, s.FilteringSymbol, s.Output).
		WithDistribution(distribution), nil
}

func (d *decoder) values(s *nodeSpec) (sql.Node, error) {
	rows := make([][]sql.Expression, len(s.Rows))
	for i, row := range s.Rows {
		if len(row) != len(s.Outputs) {
			return nil, ErrInvalidPlanFile.New("values row width does not match its outputs")
		}
		rows[i] = make([]sql.Expression, len(row))
		for j, v := range row {
			e, err := Expression(v)
			if err != nil {
				return nil, err
			}
			rows[i][j] = e
		}
	}
	return plan.NewValues(d.id(s), s.Outputs, rows...), nil
}

func parseAssignments(m yaml.MapSlice) (plan.Assignments, error) {
	result := make(plan.Assignments, len(m))
	for i, item := range m {
		symbol, err := cast.ToStringE(item.Key)
		if err != nil {
			return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
		}
		e, err := Expression(item.Value)
		if err != nil {
			return nil, err
		}
		result[i] = plan.Assignment{Symbol: sql.Symbol(symbol), Expression: e}
	}
	return result, nil
}

func parseJoinType(s string) (plan.JoinType, error) {
	switch strings.ToLower(s) {
	case "", "inner":
		return plan.JoinTypeInner, nil
	case "left":
		return plan.JoinTypeLeft, nil
	case "right":
		return plan.JoinTypeRight, nil
	case "full":
		return plan.JoinTypeFull, nil
	default:
		return 0, ErrInvalidPlanFile.New("unknown join type " + s)
	}
}

func parseDistribution(s string) (plan.DistributionType, error) {
	switch strings.ToLower(s) {
	case "", "undecided":
		return plan.DistributionUndecided, nil
	case "replicated":
		return plan.DistributionReplicated, nil
	case "partitioned":
		return plan.DistributionPartitioned, nil
	default:
		return 0, ErrInvalidPlanFile.New("unknown distribution " + s)
	}
}
