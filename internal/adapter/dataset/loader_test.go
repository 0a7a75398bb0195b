package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "influencers.json")

	content := `[
  {"id": "1", "name": "Jane Doe", "handle": "@janedoe", "niche": "AI", "followers": 12000},
  {"name": "Bob Fit", "handle": "@bobfit", "niche": "fitness", "sample_post": "Leg day every day"}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := NewLoader(nil, nil).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Name != "Jane Doe" || profiles[0].Followers != 12000 {
		t.Errorf("unexpected first profile: %+v", profiles[0])
	}
	if profiles[1].SamplePost != "Leg day every day" {
		t.Errorf("unexpected sample post: %q", profiles[1].SamplePost)
	}
}

func TestLoadJSONWrapped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrapped.json")

	content := `{"data": [{"name": "Sophie Lee", "handle": "@sophie_lee", "niche": "lifestyle"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := NewLoader(nil, nil).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 || profiles[0].Handle != "@sophie_lee" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "influencers.csv")

	content := "id,name,handle,niche,followers,sample_post\n" +
		"7,Ana Cook,@anacook,food,\"3,500\",Weeknight pasta in 15 minutes\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := NewLoader(nil, nil).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.ID != "7" || p.Name != "Ana Cook" || p.Followers != 3500 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadDirectoryWalksPatterns(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[{"name":"A","handle":"@a"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.json"), []byte(`[{"name":"B","handle":"@b"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a dataset"), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := NewLoader(nil, nil).Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles from walked files, got %d", len(profiles))
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := NewLoader(nil, nil).Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing path")
	}
}
