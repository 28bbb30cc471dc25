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

// Command joinplan optimizes the logical plans of a plan file and prints
// every plan before and after optimization.
package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sqle "github.com/dolthub/go-join-planner"
	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/planfile"
	"github.com/dolthub/go-join-planner/sql/stats"
)

func main() {
	if err := newRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config  string
	stats   string
	statsDB string
	session []string
	debug   bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "joinplan <plan-file>",
		Short:        "Optimize the joins of logical plans",
		Long:         "Eliminate cross joins and choose join distributions for every plan of a YAML plan file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), out, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "YAML features config")
	flags.StringVar(&opts.stats, "stats", "", "YAML table statistics")
	flags.StringVar(&opts.statsDB, "stats-db", "", "bolt table statistics database, updated with --stats when both are given")
	flags.StringArrayVar(&opts.session, "session", nil, "session variable as key=value, can be repeated")
	flags.BoolVar(&opts.debug, "debug", false, "log the plan after every analyzer rule")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options, path string) error {
	cfg := sql.DefaultFeaturesConfig()
	if opts.config != "" {
		var err error
		if cfg, err = sql.LoadFeaturesConfig(opts.config); err != nil {
			return err
		}
	}
	if err := sqle.ConfigureLogging(cfg); err != nil {
		return err
	}

	provider, closeProvider, err := openStats(opts)
	if err != nil {
		return err
	}
	defer closeProvider()

	e := sqle.New(cfg, stats.NewCalculator(provider))
	if opts.debug {
		e.Analyzer.WithVerbose()
	}

	plans, err := planfile.Load(path)
	if err != nil {
		return err
	}

	session := e.NewSession()
	sctx := e.NewContext(ctx, session)
	for _, kv := range opts.session {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("session variable %q must look like key=value", kv)
		}
		if err := session.SetSessionVariable(sctx, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return err
		}
	}

	nodes := make([]sql.Node, len(plans))
	for i, p := range plans {
		nodes[i] = p.Root
	}

	results, err := e.OptimizeAll(sctx, nodes)
	if err != nil {
		return err
	}

	for i, p := range plans {
		fmt.Fprintf(out, "-- %s\n%s=>\n%s\n", p.Name, p.Root, results[i])
	}
	return nil
}

// openStats returns the statistics selected by the flags. Without any
// statistics every estimate is unknown.
func openStats(opts *options) (stats.Provider, func(), error) {
	var memory *stats.MemoryProvider
	if opts.stats != "" {
		data, err := ioutil.ReadFile(opts.stats)
		if err != nil {
			return nil, nil, err
		}
		if memory, err = stats.ParseMemoryProvider(data); err != nil {
			return nil, nil, err
		}
	}

	if opts.statsDB == "" {
		if memory == nil {
			memory = stats.NewMemoryProvider(nil)
		}
		return memory, func() {}, nil
	}

	db, err := stats.OpenBoltProvider(opts.statsDB)
	if err != nil {
		return nil, nil, err
	}
	if memory != nil {
		if err := db.PutAll(memory.Tables()); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return db, func() {
		if err := db.Close(); err != nil {
			logrus.Warnf("unable to close statistics database: %s", err)
		}
	}, nil
}
