// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/jinzhu/inflection"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/attrs"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/journal"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
)

// payloadRoot is where jsonapi payloads keep resource attributes.
const payloadRoot = "attributes"

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec. Keys are relative to the
// document root.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	return buildAttrs(cmd, "", defaults...)
}

// BuildPayloadAttrs is BuildAttrs for jsonapi payloads, where keys not
// starting with '.' live under "attributes".
func BuildPayloadAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	return buildAttrs(cmd, payloadRoot, defaults...)
}

func buildAttrs(cmd *cli.Command, root string, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.SetUnder(root, d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.SetUnder(root, extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// documentAttrs lists every column in order, marking the bold columns with
// the "b" transform.
func documentAttrs(cmd *cli.Command, cols []string) attrs.AttrList {
	bold := boldColumns()
	specs := make([]string, 0, len(cols))
	for _, c := range cols {
		// The output key is repeated so dotted names keep their full title.
		spec := c + ":" + c
		if contains(bold, c) {
			spec += ":b"
		}
		specs = append(specs, spec)
	}
	return BuildAttrs(cmd, strings.Join(specs, ","))
}

// boldColumns names the columns rendered bold, "name" unless the config
// file says otherwise.
func boldColumns() []string {
	bold, err := config.GetStringSlice("bold", []string{"name"})
	if err != nil {
		log.Debugf("bold config ignored: %v", err)
		return []string{"name"}
	}
	return bold
}

// DumpSchemaIfRequested writes the JSON schema for the provided type to stdout
// when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(stdout(cmd), t)
		return true
	}
	return false
}

// EmitJSONAPISlice marshals a slice as JSONAPI and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "data", stdout(cmd), nil)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr rsheet <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "rsheet", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// openStore opens the store named by the command's flags. Without --store
// the dotenv settings are used.
func openStore(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	settings := store.FromCommand(cmd)
	if settings.URI == "" {
		settings.URI = GetMeta(cmd).Env.StoreURI()
	}
	st, err := store.New(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debugf("store opened: %s %s", st.Type(), st.String())
	return st, nil
}

func closeStore(ctx context.Context, st store.Store) {
	if err := st.Close(ctx); err != nil {
		log.Debugf("store close: %v", err)
	}
}

// storeKey identifies a store in the journal.
func storeKey(st store.Store) string {
	return st.Type() + ":" + st.String()
}

// openJournal opens --journal, or the default journal under the user config
// directory.
func openJournal(cmd *cli.Command) (*journal.Journal, error) {
	path := cmd.String("journal")
	if path == "" {
		var err error
		if path, err = journal.DefaultPath(); err != nil {
			return nil, fmt.Errorf("locate journal: %w", err)
		}
	}
	return journal.Open(path)
}

// stdout is where command output goes: the root command's Writer when set.
func stdout(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if w := cmd.Root().Writer; w != nil {
			return w
		}
	}
	return os.Stdout
}

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// plural renders "1 change" or "3 changes".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

// shortID trims a journal entry ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
