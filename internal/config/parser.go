package config

import "fmt"

// container is a generic parsed [section]...[end] block: assignments
// collected by key (repeatable keys accumulate a list), plus nested
// child containers in source order. bind.go walks this tree to build
// the typed [Profile]; keeping the parse step generic (rather than
// binding directly while tokenizing) mirrors the original grammar's
// container_desc_t/handle_container recursion (parser.c) and keeps the
// dynamic-dispatch [Value] union isolated to this layer.
type container struct {
	kind     string // "", "filesystem", "threadgroup", "stats"
	values   map[string][]Value
	children []*container
}

func newContainer(kind string) *container {
	return &container{kind: kind, values: make(map[string][]Value)}
}

// first returns the first (or only) assignment for key, if any.
func (c *container) first(key string) (Value, bool) {
	vs := c.values[key]
	if len(vs) == 0 {
		return Value{}, false
	}
	return vs[0], true
}

// parseNew parses the "new" sectioned dialect: a flat set of global
// key=value assignments plus zero or more [filesystem]...[end] sections,
// each of which may contain zero or more nested [threadgroup]...[end]
// (the aging group) each of which may contain one nested
// [stats]...[end].
func parseNew(text string) (*container, error) {
	lines, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	root := newContainer("")
	i := 0
	var parseSection func(kind string) (*container, error)

	parseSection = func(kind string) (*container, error) {
		c := newContainer(kind)
		for i < len(lines) {
			ln := lines[i]
			switch ln.kind {
			case lineSectionEnd:
				i++
				return c, nil
			case lineSectionOpen:
				i++
				child, err := parseSection(ln.section)
				if err != nil {
					return nil, err
				}
				c.children = append(c.children, child)
			case lineAssign:
				i++
				if err := addAssign(c, ln); err != nil {
					return nil, err
				}
			case lineArgs:
				i++
				if err := addArgs(c, ln); err != nil {
					return nil, err
				}
			}
		}
		if kind != "" {
			return nil, fmt.Errorf("config: unterminated [%s] section", kind)
		}
		return c, nil
	}

	root, err = parseSection("")
	if err != nil {
		return nil, err
	}

	return root, nil
}

// addAssign records a key=value line into c, typing the value by key
// name per the legacy parser's per-option type table (parser.c's
// config_options_t / container_desc[]).
func addAssign(c *container, ln line) error {
	var v Value

	switch ln.key {
	case "verbose", "directio", "bufferio", "alignio", "reuse", "agefs",
		"read_random", "read_skip", "write_random", "fsync_file",
		"bindfs_all", "enable_stats":
		b, err := parseBool(ln.value)
		if err != nil {
			return fmt.Errorf("config: line %d: %s: %w", ln.num, ln.key, err)
		}
		v = valBool(b)

	case "location", "callout", "ignore":
		v = valStr(ln.value)

	case "desired_util", "init_util":
		f, err := parseDouble(ln.value)
		if err != nil {
			return fmt.Errorf("config: line %d: %s: %w", ln.num, ln.key, err)
		}
		v = valDbl(f)

	default:
		// Everything else (time, num_files, num_dirs, num_threads,
		// min_filesize, max_filesize, create_blocksize, age_blocksize,
		// init_size, bindfs, *_weight, read_size, read_blocksize,
		// read_skipsize, write_size, write_blocksize, op_delay) is an
		// unsigned integer; size-bearing keys are parsed as 64-bit
		// throughout (see SPEC_FULL.md's note on the legacy
		// get_config_u64 bug).
		n, err := parseU64(ln.value)
		if err != nil {
			return fmt.Errorf("config: line %d: %s: %w", ln.num, ln.key, err)
		}
		v = valU64(n)
	}

	c.values[ln.key] = append(c.values[ln.key], v)
	return nil
}

// addArgs records a "key v1 v2..." line: size_weight (size, weight) or
// bucket (min_ms, max_ms). Any other key is rejected; ignore is only
// accepted in its ignore=<name> form (see addAssign).
func addArgs(c *container, ln line) error {
	switch ln.key {
	case "size_weight":
		if len(ln.args) != 2 {
			return fmt.Errorf("config: line %d: size_weight requires 2 args, got %d", ln.num, len(ln.args))
		}
		size, err := parseU64(ln.args[0])
		if err != nil {
			return fmt.Errorf("config: line %d: size_weight size: %w", ln.num, err)
		}
		weight, err := parseU64(ln.args[1])
		if err != nil {
			return fmt.Errorf("config: line %d: size_weight weight: %w", ln.num, err)
		}
		c.values[ln.key] = append(c.values[ln.key], Value{Kind: KindSizeWeight, SWSize: size, SWWt: uint32(weight)})

	case "bucket":
		if len(ln.args) != 2 {
			return fmt.Errorf("config: line %d: bucket requires 2 args, got %d", ln.num, len(ln.args))
		}
		lo, err := parseDouble(ln.args[0])
		if err != nil {
			return fmt.Errorf("config: line %d: bucket min: %w", ln.num, err)
		}
		hi, err := parseDouble(ln.args[1])
		if err != nil {
			return fmt.Errorf("config: line %d: bucket max: %w", ln.num, err)
		}
		c.values[ln.key] = append(c.values[ln.key], Value{Kind: KindRange, Range: [2]float64{lo, hi}})

	default:
		return fmt.Errorf("config: line %d: unrecognized directive %q", ln.num, ln.key)
	}

	return nil
}
