package constants

import "testing"

func TestPackageForApp(t *testing.T) {
	pkg, ok := PackageForApp("Chrome")
	if !ok || pkg != "com.android.chrome" {
		t.Errorf("PackageForApp(Chrome) = %q, %v", pkg, ok)
	}

	// Lookup is case-insensitive.
	pkg, ok = PackageForApp("chrome")
	if !ok || pkg != "com.android.chrome" {
		t.Errorf("PackageForApp(chrome) = %q, %v", pkg, ok)
	}

	// Package-looking names pass through.
	pkg, ok = PackageForApp("org.mozilla.firefox")
	if !ok || pkg != "org.mozilla.firefox" {
		t.Errorf("PackageForApp(org.mozilla.firefox) = %q, %v", pkg, ok)
	}

	if _, ok = PackageForApp("No Such App"); ok {
		t.Error("expected unknown app to miss")
	}
	if _, ok = PackageForApp(""); ok {
		t.Error("expected empty name to miss")
	}
}
