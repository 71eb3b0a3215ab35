package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-json"

	"github.com/VanDung-dev/HieraChain-Columnar/bridge"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
)

// schemaCommand converts a JSON list of fields to an arrow schema, checks
// that it converts back unchanged and prints it.
type schemaCommand struct {
	file      *string
	printJSON *bool
	logger    func() log.Logger
}

func (cmd *schemaCommand) run(*kingpin.ParseContext) error {
	logger := cmd.logger()

	f, err := os.Open(*cmd.file)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to open file: %w", err))
	}
	defer func() { _ = f.Close() }()

	out, err := renderSchema(f, *cmd.printJSON)
	if err != nil {
		level.Error(logger).Log("msg", "schema check failed", "file", *cmd.file, "err", err)
		exitWithErr(err)
	}
	level.Info(logger).Log("msg", "schema round trip ok", "file", *cmd.file)
	fmt.Print(out)
	return nil
}

func renderSchema(r io.Reader, printJSON bool) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read fields: %w", err)
	}
	var fields []datatypes.Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("failed to decode fields: %w", err)
	}

	schema, err := bridge.SchemaToArrow(fields)
	if err != nil {
		return "", fmt.Errorf("failed to convert schema: %w", err)
	}
	back, err := bridge.SchemaFromArrow(schema)
	if err != nil {
		return "", fmt.Errorf("failed to convert schema back: %w", err)
	}
	if len(back) != len(fields) {
		return "", fmt.Errorf("schema round trip returned %d fields, want %d", len(back), len(fields))
	}
	for i := range fields {
		if !fields[i].Equal(back[i]) {
			return "", fmt.Errorf("field %d changed in round trip: %s became %s", i, fields[i], back[i])
		}
	}

	if printJSON {
		out, err := json.MarshalIndent(back, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode fields: %w", err)
		}
		return string(out) + "\n", nil
	}
	return schema.String() + "\n", nil
}

func addSchemaCommand(app *kingpin.Application, logger func() log.Logger) {
	cmd := &schemaCommand{logger: logger}
	schema := app.Command("schema", "Convert a JSON list of fields to an arrow schema and print it.").Action(cmd.run)
	cmd.file = schema.Arg("file", "JSON file holding a list of fields.").Required().ExistingFile()
	cmd.printJSON = schema.Flag("json", "Print the round-tripped fields as JSON instead of the arrow schema.").Bool()
}
