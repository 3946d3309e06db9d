package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/jarwalk/pkg/httputil"
)

func ExampleCache() {
	dir := filepath.Join(os.TempDir(), "jarwalk-example")
	defer os.RemoveAll(dir)

	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	meta := cache.Namespace("maven-metadata:")

	if err := meta.Set("com.google.guava:guava", "33.0.0-jre"); err != nil {
		fmt.Println("Error:", err)
		return
	}

	var release string
	if ok, err := meta.Get("com.google.guava:guava", &release); ok && err == nil {
		fmt.Println("Release:", release)
	}
	// Output:
	// Release: 33.0.0-jre
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "jarwalk-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}
