package oscontext

import "testing"

func TestFactoryForRecognizedTargets(t *testing.T) {
	if _, ok := FactoryFor("android")().(*AndroidContext); !ok {
		t.Fatalf("expected android factory to build AndroidContext")
	}
	if _, ok := FactoryFor("ios")().(*IOSContext); !ok {
		t.Fatalf("expected ios factory to build IOSContext")
	}
	if _, ok := FactoryFor("windows")().(*WindowsContext); !ok {
		t.Fatalf("expected windows factory to build WindowsContext")
	}
}

func TestFactoryForFallsBackToDefault(t *testing.T) {
	targets := []string{
		"",
		"linux",
		"macos",
		"freebsd",
		"Android",
		"IOS",
		"Windows",
		"win32",
		"fuchsia",
		"android ",
	}
	for _, target := range targets {
		factory := FactoryFor(target)
		if factory == nil {
			t.Fatalf("factory for %q is nil", target)
		}
		if _, ok := factory().(*DefaultContext); !ok {
			t.Fatalf("expected %q to resolve the Default variant", target)
		}
	}
}

func TestTargetsListsDedicatedVariants(t *testing.T) {
	want := map[string]bool{"android": true, "ios": true, "windows": true}
	got := Targets()
	if len(got) != len(want) {
		t.Fatalf("unexpected targets %v", got)
	}
	for _, target := range got {
		if !want[target] {
			t.Fatalf("unexpected target %q", target)
		}
	}
}
