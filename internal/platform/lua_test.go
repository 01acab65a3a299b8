package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{
		OS:        "linux",
		Arch:      "amd64",
		ArchRaw:   "amd64",
		ArchToken: "x86_64",
		Platform:  "ubuntu",
		Family:    "debian",
		Version:   "22.04",
	}

	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"os", `return platform.os`, lua.LString("linux")},
		{"arch", `return platform.arch`, lua.LString("amd64")},
		{"arch_token", `return platform.arch_token`, lua.LString("x86_64")},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_macos", `return platform.is_macos`, lua.LFalse},
		{"is_amd64", `return platform.is_amd64`, lua.LTrue},
		{"is_arm64", `return platform.is_arm64`, lua.LFalse},
		{"distro.id", `return platform.distro.id`, lua.LString("ubuntu")},
		{"distro.family", `return platform.distro.family`, lua.LString("debian")},
		{"when true", `return platform.when(true, "x")`, lua.LString("x")},
		{"when false", `return platform.when(false, "x")`, lua.LNil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("DoString(%q) error = %v", tt.code, err)
			}
			got := L.Get(-1)
			L.Pop(1)
			if got.Type() != tt.want.Type() || got.String() != tt.want.String() {
				t.Errorf("%s = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestInjectPlatformTable_NoDistro(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "darwin", Arch: "arm64", ArchToken: "arm64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	if err := L.DoString(`assert(platform.distro == nil)`); err != nil {
		t.Errorf("distro should be nil on darwin: %v", err)
	}
}

func TestInjectPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	for _, code := range []string{
		`platform.os = "windows"`,
		`platform.new_field = true`,
		`setmetatable(platform, {})`,
	} {
		err := L.DoString(code)
		if err == nil {
			t.Errorf("%q should fail", code)
			continue
		}
		if !strings.Contains(err.Error(), "read-only") && !strings.Contains(err.Error(), "protected") {
			t.Errorf("%q: unexpected error %v", code, err)
		}
	}
}
