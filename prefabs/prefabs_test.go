package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEntityPrefabsDecode(t *testing.T) {
	cases := []struct {
		file  string
		needs []string
	}{
		{"player.yaml", []string{"player_tag", "player", "transform", "collider", "rigid_body"}},
		{"dead_body.yaml", []string{"dead_body_tag", "transform", "sprite"}},
		{"door.yaml", []string{"door", "collider", "sprite"}},
		{"crate.yaml", []string{"prop_tag", "collider", "rigid_body"}},
		{"button.yaml", []string{"trigger"}},
		{"lever.yaml", []string{"trigger"}},
		{"goal.yaml", []string{"trigger"}},
		{"spawn_point.yaml", []string{"spawn_point_tag", "transform"}},
	}

	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(c.file)
			if err != nil {
				t.Fatalf("LoadEntityBuildSpec: %v", err)
			}
			for _, name := range c.needs {
				if _, ok := spec.Components[name]; !ok {
					t.Fatalf("%s missing component %q", c.file, name)
				}
			}
		})
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	spec, err := LoadEntityBuildSpec("player.yaml")
	if err != nil {
		t.Fatalf("LoadEntityBuildSpec: %v", err)
	}

	col, err := DecodeComponentSpec[ColliderComponentSpec](spec.Components["collider"])
	if err != nil {
		t.Fatalf("decode collider: %v", err)
	}
	if col.Shape != "box" || col.Width != 24 || col.Height != 48 || col.Material != "player" {
		t.Fatalf("unexpected collider spec %+v", col)
	}

	rb, err := DecodeComponentSpec[RigidBodyComponentSpec](spec.Components["rigid_body"])
	if err != nil {
		t.Fatalf("decode rigid body: %v", err)
	}
	if rb.Type != "dynamic" || rb.GravityScale == nil || *rb.GravityScale != 1 || !rb.FreezeRotation {
		t.Fatalf("unexpected rigid body spec %+v", rb)
	}

	empty, err := DecodeComponentSpec[TriggerComponentSpec](nil)
	if err != nil || empty != (TriggerComponentSpec{}) {
		t.Fatalf("nil raw should decode to zero value, got %+v, %v", empty, err)
	}
}

func TestImagesAndMaterials(t *testing.T) {
	images, err := LoadImagesSpec()
	if err != nil {
		t.Fatalf("LoadImagesSpec: %v", err)
	}
	names := make(map[string]bool)
	for _, img := range images.Images {
		if img.Width <= 0 || img.Height <= 0 || img.Color == nil {
			t.Fatalf("image %q incomplete: %+v", img.Name, img)
		}
		names[img.Name] = true
	}
	for _, want := range []string{"player", "dead_body", "door_open", "door_closed", "tile"} {
		if !names[want] {
			t.Fatalf("images.yaml missing %q", want)
		}
	}

	mats, err := LoadMaterialsSpec()
	if err != nil {
		t.Fatalf("LoadMaterialsSpec: %v", err)
	}
	if len(mats.Materials) == 0 {
		t.Fatalf("no materials")
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#ff8000"`, color.NRGBA{R: 255, G: 128, B: 0, A: 255}, false},
		{`"10203040"`, color.NRGBA{R: 16, G: 32, B: 48, A: 64}, false},
		{`"#fff"`, color.NRGBA{}, true},
		{`"#zzzzzz"`, color.NRGBA{}, true},
		{`[1, 2]`, color.NRGBA{}, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", c.in, err)
			}
			if got.Color != c.want {
				t.Fatalf("color %v, want %v", got.Color, c.want)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"toggle_both", "scripts/toggle_both.tengo", "prefabs/scripts/toggle_both.tengo"} {
		t.Run(name, func(t *testing.T) {
			src, err := LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript(%q): %v", name, err)
			}
			if !strings.Contains(string(src), "toggle_door") {
				t.Fatalf("unexpected script body %q", src)
			}
		})
	}
}

func TestWatchDirsClassify(t *testing.T) {
	dirs := WatchDirs{Levels: "levels", Prefabs: "prefabs", Scripts: "prefabs/scripts"}
	cases := []struct {
		path string
		want ChangeKind
		ok   bool
	}{
		{"levels/level_01.yaml", ChangeLevel, true},
		{"prefabs/door.yaml", ChangePrefab, true},
		{"prefabs/images.yaml", ChangeImages, true},
		{"prefabs/scripts/open_only.tengo", ChangeScript, true},
		{"prefabs/door.tengo", 0, false},
		{"prefabs/scripts/notes.yaml", 0, false},
		{"levels/.level_01.yaml.swp", 0, false},
		{"levels/level_01.yaml~", 0, false},
		{"levels/readme.txt", 0, false},
		{"other/level_01.yaml", 0, false},
	}

	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			got, ok := dirs.classify(filepath.FromSlash(c.path))
			if ok != c.ok || (ok && got != c.want) {
				t.Fatalf("classify(%q) = %v, %v; want %v, %v", c.path, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestWatcherBatchesChanges(t *testing.T) {
	root := t.TempDir()
	dirs := WatchDirs{
		Levels:  filepath.Join(root, "levels"),
		Prefabs: filepath.Join(root, "prefabs"),
		Scripts: filepath.Join(root, "prefabs", "scripts"),
	}
	for _, dir := range []string{dirs.Levels, dirs.Scripts} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	w, err := newWatcher(dirs, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("newWatcher: %v", err)
	}
	defer w.Close()

	files := map[string]string{
		filepath.Join(dirs.Levels, "notes.txt"):        "x",
		filepath.Join(dirs.Levels, "level_01.yaml"):    "name: one\n",
		filepath.Join(dirs.Prefabs, "crate.yaml"):      "name: crate\n",
		filepath.Join(dirs.Scripts, "open_only.tengo"): "win()\n",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want := map[string]ChangeKind{
		"level_01.yaml":   ChangeLevel,
		"crate.yaml":      ChangePrefab,
		"open_only.tengo": ChangeScript,
	}
	got := map[string]ChangeKind{}
	deadline := time.After(2 * time.Second)
	for len(got) < len(want) {
		select {
		case batch := <-w.Events:
			for _, c := range batch {
				got[filepath.Base(c.Path)] = c.Kind
			}
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatalf("changes seen %v, want %v", got, want)
		}
	}
	for name, kind := range want {
		if got[name] != kind {
			t.Fatalf("%s reported as %v, want %v", name, got[name], kind)
		}
	}
	if _, ok := got["notes.txt"]; ok {
		t.Fatalf("unrelated file reported")
	}
}
