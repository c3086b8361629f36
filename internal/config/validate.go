package config

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/volatixdb/volatix/pkg/log"
)

// Validate compiles schema and checks instance against it, aborting the
// process on any failure — a bad config file is a startup error, not
// something to run with defaults and hope.
func Validate(schema string, instance json.RawMessage) {
	sch, err := jsonschema.CompileString("schema.json", schema)
	if err != nil {
		log.Fatalf("%#v", err)
	}

	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		log.Fatal(err)
	}

	if err := sch.Validate(v); err != nil {
		log.Fatalf("%#v", err)
	}
}
