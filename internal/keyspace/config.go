package keyspace

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConfigGet renders one configuration entry in the "key: value" form
// CONFGET and CONFOPTIONS reply with, mirroring the original
// implementation's get_config_entry string builder.
func (k *Keyspace) ConfigGet(name string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	opts := k.opts

	switch strings.ToUpper(name) {
	case "GLOBALTTL":
		return fmt.Sprintf("GLOBALTTL: %d", int64(opts.GlobalTTL.Seconds())), nil
	case "MAXCAP":
		return fmt.Sprintf("MAXCAP: %d", opts.MaxCapacity), nil
	case "EVICTPOLICY":
		return fmt.Sprintf("EVICTPOLICY: %s", opts.EvictPolicy), nil
	case "COMPRESSION":
		return fmt.Sprintf("COMPRESSION: %t", opts.Compression), nil
	case "COMPTHRESHOLD", "COMPRESSIONTHRESHOLD":
		return fmt.Sprintf("COMPRESSIONTHRESHOLD: %d", opts.CompressionThreshold), nil
	default:
		return "", newError(ErrInvalidArgument, fmt.Sprintf("unknown config key %q", name))
	}
}

// ConfigOptions renders every configuration entry, in the §6.5 string
// form CONFOPTIONS replies with.
func (k *Keyspace) ConfigOptions() string {
	k.mu.RLock()
	opts := k.opts
	k.mu.RUnlock()
	return fmt.Sprintf(
		"GLOBALTTL: %d, MAXCAP: %d, EVICTPOLICY: %s, COMPRESSION: %t, COMPRESSIONTHRESHOLD: %d",
		int64(opts.GlobalTTL.Seconds()), opts.MaxCapacity, opts.EvictPolicy, opts.Compression, opts.CompressionThreshold,
	)
}

// ConfigSet parses and applies one configuration value, returning an
// error if the key is unknown or the value doesn't parse.
func (k *Keyspace) ConfigSet(name, rawValue string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch strings.ToUpper(name) {
	case "GLOBALTTL":
		seconds, err := strconv.ParseInt(rawValue, 10, 64)
		if err != nil {
			return newError(ErrInvalidArgument, "GLOBALTTL must be an integer number of seconds")
		}
		k.opts.GlobalTTL = time.Duration(seconds) * time.Second
	case "MAXCAP":
		cap, err := strconv.ParseInt(rawValue, 10, 64)
		if err != nil || cap < 0 {
			return newError(ErrInvalidArgument, "MAXCAP must be a non-negative integer")
		}
		k.opts.MaxCapacity = cap
	case "EVICTPOLICY":
		policy, err := ParsePolicy(rawValue)
		if err != nil {
			return newError(ErrInvalidArgument, err.Error())
		}
		k.opts.EvictPolicy = policy
	case "COMPRESSION":
		switch strings.ToUpper(rawValue) {
		case "ENABLE":
			k.opts.Compression = true
		case "DISABLE":
			k.opts.Compression = false
		default:
			return newError(ErrInvalidArgument, "COMPRESSION must be ENABLE or DISABLE")
		}
	case "COMPTHRESHOLD", "COMPRESSIONTHRESHOLD":
		threshold, err := strconv.ParseInt(rawValue, 10, 64)
		if err != nil || threshold < 0 {
			return newError(ErrInvalidArgument, "COMPRESSIONTHRESHOLD must be a non-negative integer")
		}
		k.opts.CompressionThreshold = threshold
	default:
		return newError(ErrInvalidArgument, fmt.Sprintf("unknown config key %q", name))
	}

	k.markDirty()
	return nil
}

// ConfigReset restores every option to its default value.
func (k *Keyspace) ConfigReset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.opts = DefaultOptions()
	k.markDirty()
}
