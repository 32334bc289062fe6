/*
Package config reads catalog configuration and item declaration files.

Config wraps a decoded YAML or JSON mapping and exposes typed accessors that
fall back to a default when a key is missing or has the wrong type:

	cfg, err := config.FromFile("catalog.yaml")
	if err != nil {
	    return err
	}

	name := cfg.String("name", "backends")
	metrics := cfg.Bool("metrics", false)
	for _, item := range cfg.List("items") {
	    fmt.Println(item.String("name", ""), item.StringSlice("aliases", nil))
	}

Nested mappings are reached with Sub and lists of mappings with List.

FromFile picks the decoder with FormatOf. Data from elsewhere goes through
Parse with an explicit Format. Unknown extensions and formats fail with
ErrUnsupportedFormat.

Config is safe for concurrent reads. The underlying map is never modified.
*/
package config
