package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/fsutil"
)

// rootSchema is the HCL shape shared by the main config file and plugin
// manifests.
type rootSchema struct {
	Server  *serverSchema  `hcl:"server,block"`
	Logging *loggingSchema `hcl:"logging,block"`
	Plugins []pluginSchema `hcl:"plugin,block"`
}

type serverSchema struct {
	Port    *int    `hcl:"port,optional"`
	BaseURL *string `hcl:"base_url,optional"`
}

type loggingSchema struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// pluginSchema captures a `plugin "name" { ... }` block. The block body is
// left raw: plugins define their own option names, so the loader only
// requires that every attribute converts to a string.
type pluginSchema struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load builds the merged configuration from an optional main file plus every
// .hcl manifest found under the search paths, in lexical order per path.
func Load(ctx context.Context, path string, searchPaths []string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	cfg := Default()
	parser := hclparse.NewParser()

	var files []string
	if path != "" {
		files = append(files, path)
	}
	for _, dir := range searchPaths {
		found, err := fsutil.FindFilesByExtension(dir, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning plugin path %s: %w", dir, err)
		}
		files = append(files, found...)
	}

	for _, file := range files {
		logger.Debug("Loading configuration file.", "file", file)
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		if err := cfg.merge(hclFile.Body); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
	}

	logger.Debug("Configuration loaded.", "files", len(files), "plugin_blocks", len(cfg.Plugins))
	return cfg, nil
}

// merge decodes one file body into the config, later files winning.
func (c *Config) merge(body hcl.Body) error {
	var root rootSchema
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}

	if root.Server != nil {
		if root.Server.Port != nil {
			c.Port = *root.Server.Port
		}
		if root.Server.BaseURL != nil {
			c.BaseURL = *root.Server.BaseURL
		}
	}
	if root.Logging != nil {
		if root.Logging.Level != nil {
			c.LogLevel = *root.Logging.Level
		}
		if root.Logging.Format != nil {
			c.LogFormat = *root.Logging.Format
		}
	}

	for _, block := range root.Plugins {
		opts, err := blockOptions(block.Body)
		if err != nil {
			return fmt.Errorf("plugin %q: %w", block.Name, err)
		}
		merged, ok := c.Plugins[block.Name]
		if !ok {
			merged = make(map[string]string, len(opts))
			c.Plugins[block.Name] = merged
		}
		for k, v := range opts {
			merged[k] = v
		}
	}
	return nil
}

// blockOptions flattens a plugin block's attributes into a string map. Every
// value must be convertible to a string; structured values are a plugin
// manifest authoring error.
func blockOptions(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	opts := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("option %q is not a string-like value: %w", name, err)
		}
		if strVal.IsNull() {
			return nil, fmt.Errorf("option %q is null", name)
		}
		opts[name] = strVal.AsString()
	}
	return opts, nil
}
