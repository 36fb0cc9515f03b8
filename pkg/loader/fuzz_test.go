package loader

import "testing"

// FuzzParseOverlay verifies the overlay parser never panics and only ever
// produces entries for suffixed columns.
//
// Run with: go test -fuzz=FuzzParseOverlay -fuzztime=1m ./pkg/loader/...
func FuzzParseOverlay(f *testing.F) {
	seeds := []string{
		"rok;A_LU%\n2020;15.5\n",
		"",
		"rok\n",
		"rok;A_LU%\n\"2020;1\n",
		"rok;;;\n;;;\n",
		"\ufeffROK;A_LU%;B_LU%\r\n2020;1,5;x\r\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		overlay, _ := ParseOverlay(text)
		for id := range overlay {
			if id == "" {
				t.Fatalf("empty sector id produced from %q", text)
			}
		}
	})
}

// FuzzParse verifies the primary feed parser always returns a usable dataset.
func FuzzParse(f *testing.F) {
	f.Add([]byte(scenarioFeed))
	f.Add([]byte(`{"years":[],"sectors":null}`))
	f.Add([]byte(`{"years":[1,2],"sectors":[{"id":"a","score":[null,3]}]}`))
	f.Add([]byte(`[]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		ds, err := Parse(data)
		if ds == nil {
			t.Fatal("Parse returned a nil dataset")
		}
		if err != nil && !ds.IsEmpty() {
			t.Fatal("failed parse must return an empty dataset")
		}
		for _, s := range ds.Sectors {
			if len(s.Score) != len(ds.Years) {
				t.Fatalf("series not aligned to the year axis")
			}
		}
	})
}
