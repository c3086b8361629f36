package config

// fileSchema is the embedded JSON Schema the optional config file is
// validated against before it's decoded into fileOverlay, the same way the
// teacher's internal/config.Validate guards its own config.json.
const fileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"port": { "type": "integer", "minimum": 1, "maximum": 65535 },
		"snapshot_path": { "type": "string" },
		"snapshot_interval_seconds": { "type": "integer", "minimum": 1 },
		"global_ttl_seconds": { "type": "integer", "minimum": 0 },
		"max_capacity": { "type": "integer", "minimum": 0 },
		"eviction_policy": {
			"type": "string",
			"enum": ["Oldest", "LRU", "LFU", "SizeAware"]
		},
		"compression": { "type": "boolean" },
		"compression_threshold": { "type": "integer", "minimum": 0 },
		"admin_addr": { "type": "string" }
	}
}`
