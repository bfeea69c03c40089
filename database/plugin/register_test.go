// Copyright 2026 Blink Labs Software
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

package plugin_test

import (
	"testing"

	"github.com/blinklabs-io/gavel/database/plugin"
)

// stubPlugin carries a tag so tests can tell instances apart
type stubPlugin struct {
	tag string
}

func (s *stubPlugin) Start() error { return nil }
func (s *stubPlugin) Stop() error  { return nil }

func registerStub(
	pluginType plugin.PluginType,
	name string,
	tag string,
) {
	plugin.Register(plugin.PluginEntry{
		Type: pluginType,
		Name: name,
		NewFromOptionsFunc: func() plugin.Plugin {
			return &stubPlugin{tag: tag}
		},
	})
}

func TestRegisterAndLookup(t *testing.T) {
	name := "stub-" + t.Name()
	registerStub(plugin.PluginTypeBlob, name, "lookup")

	p := plugin.GetPlugin(plugin.PluginTypeBlob, name)
	if p == nil {
		t.Fatal("registered plugin not found")
	}
	stub, ok := p.(*stubPlugin)
	if !ok {
		t.Fatalf("unexpected plugin type %T", p)
	}
	if stub.tag != "lookup" {
		t.Fatalf("constructor returned wrong instance: tag %q", stub.tag)
	}
}

func TestGetPluginsFiltersByType(t *testing.T) {
	blobName := "blob-" + t.Name()
	metaName := "meta-" + t.Name()
	registerStub(plugin.PluginTypeBlob, blobName, "blob")
	registerStub(plugin.PluginTypeMetadata, metaName, "meta")

	names := func(entries []plugin.PluginEntry) map[string]bool {
		ret := make(map[string]bool, len(entries))
		for _, entry := range entries {
			ret[entry.Name] = true
		}
		return ret
	}

	blobNames := names(plugin.GetPlugins(plugin.PluginTypeBlob))
	if !blobNames[blobName] {
		t.Errorf("blob plugin %q missing from blob listing", blobName)
	}
	if blobNames[metaName] {
		t.Errorf("metadata plugin %q leaked into blob listing", metaName)
	}

	metaNames := names(plugin.GetPlugins(plugin.PluginTypeMetadata))
	if !metaNames[metaName] {
		t.Errorf("metadata plugin %q missing from metadata listing", metaName)
	}
	if metaNames[blobName] {
		t.Errorf("blob plugin %q leaked into metadata listing", blobName)
	}
}

func TestGetPluginUnknown(t *testing.T) {
	name := "typed-" + t.Name()
	registerStub(plugin.PluginTypeBlob, name, "typed")

	if p := plugin.GetPlugin(plugin.PluginTypeBlob, "no-such-"+t.Name()); p != nil {
		t.Errorf("expected nil for unknown name, got %T", p)
	}
	// Same name registered under a different type should not match
	if p := plugin.GetPlugin(plugin.PluginTypeMetadata, name); p != nil {
		t.Errorf("expected nil for wrong plugin type, got %T", p)
	}
}

func TestPluginTypeName(t *testing.T) {
	testDefs := []struct {
		pluginType plugin.PluginType
		expected   string
	}{
		{plugin.PluginTypeBlob, "blob"},
		{plugin.PluginTypeMetadata, "metadata"},
		{plugin.PluginType(99), "unknown"},
	}
	for _, testDef := range testDefs {
		if name := plugin.PluginTypeName(testDef.pluginType); name != testDef.expected {
			t.Errorf(
				"got name %q for plugin type %d, expected %q",
				name,
				testDef.pluginType,
				testDef.expected,
			)
		}
	}
}
