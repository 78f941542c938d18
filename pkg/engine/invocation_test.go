package engine

import (
	"reflect"
	"testing"
)

func countOf(args []string, want string) int {
	n := 0
	for _, a := range args {
		if a == want {
			n++
		}
	}
	return n
}

func TestInvocation_Args(t *testing.T) {
	inv := Invocation{
		GridPath: "/data/in_depth.tif",
		Near:     5,
		Standard: "order1a",
		OutDir:   "/tmp/scratch",
	}

	want := []string{
		"-i", "/data/in_depth.tif",
		"-near", "5",
		"-standard", "order1a",
		"-odir", "/tmp/scratch",
	}
	if got := inv.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestInvocation_ArgsVerbose(t *testing.T) {
	inv := Invocation{
		GridPath: "/data/in_depth.tif",
		Near:     3,
		Standard: "hipp1",
		Verbose:  true,
		OutDir:   "/tmp/scratch",
	}

	args := inv.Args()
	if countOf(args, "-verbose") != 1 {
		t.Errorf("expected -verbose exactly once, got %v", args)
	}
	// -verbose sits between the standard token and -odir.
	if args[len(args)-2] != "-odir" || args[len(args)-3] != "-verbose" {
		t.Errorf("unexpected flag ordering: %v", args)
	}
}

func TestInvocation_ArgsEachValueOnce(t *testing.T) {
	inv := Invocation{
		GridPath: "/data/grid.tif",
		Near:     7,
		Standard: "order2",
		OutDir:   "/tmp/out",
	}

	args := inv.Args()
	for _, v := range []string{"/data/grid.tif", "7", "order2", "/tmp/out"} {
		if countOf(args, v) != 1 {
			t.Errorf("expected %q exactly once in %v", v, args)
		}
	}
	if countOf(args, "-verbose") != 0 {
		t.Errorf("did not expect -verbose in %v", args)
	}
}
