package constants

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func resolveFile(t *testing.T, path string) Table {
	t.Helper()
	raw, err := LoadFile(path)
	require.NoError(t, err)
	tbl, err := Resolve(StrictSchema(), raw)
	require.NoError(t, err)
	return tbl
}

var wantFileTable = Table{
	PhysicsSpeedDamp: 0.5,
	StealthMinDist:   1000,
	EWJumpBonusRange: 200,
	EWAsteroidDist:   75,
	EWJumpDetectDist: 2000,
	EWSpobDetectDist: 1500,
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "constants.json", []byte(`{
		"PHYSICS_SPEED_DAMP": 0.5,
		"STEALTH_MIN_DIST": 1000,
		"EW_JUMP_BONUS_RANGE": 200,
		"EW_ASTEROID_DIST": 75,
		"EW_JUMPDETECT_DIST": 2e3,
		"EW_SPOBDETECT_DIST": "1500"
	}`))
	assert.Equal(t, wantFileTable, resolveFile(t, path))
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "constants.yml", []byte(`
PHYSICS_SPEED_DAMP: 0.5
STEALTH_MIN_DIST: 1000
EW_JUMP_BONUS_RANGE: 200
EW_ASTEROID_DIST: 75
EW_JUMPDETECT_DIST: 2000.0
EW_SPOBDETECT_DIST: 1500
`))
	assert.Equal(t, wantFileTable, resolveFile(t, path))
}

func TestLoadFileMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{
		PhysicsSpeedDamp: 0.5,
		StealthMinDist:   int64(1000),
		EWJumpBonusRange: uint16(200),
		EWAsteroidDist:   int8(75),
		EWJumpDetectDist: float32(2000),
		EWSpobDetectDist: 1500,
	})
	require.NoError(t, err)
	path := writeFile(t, "constants.msgpack", data)
	assert.Equal(t, wantFileTable, resolveFile(t, path))
}

func TestLoadFileLua(t *testing.T) {
	path := writeFile(t, "constants.lua", []byte(`
local constants = {
   -- Physics
   PHYSICS_SPEED_DAMP = 0.5,
   STEALTH_MIN_DIST = 1e3,
   -- Electronic warfare
   EW_JUMP_BONUS_RANGE = 200,
   EW_ASTEROID_DIST = 75,
   EW_JUMPDETECT_DIST = 2 * 1000,
   EW_SPOBDETECT_DIST = 1500,
}
return constants
`))
	assert.Equal(t, wantFileTable, resolveFile(t, path))
}

func TestLoadFileLuaRejectsNonTable(t *testing.T) {
	path := writeFile(t, "constants.lua", []byte(`return 3`))
	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "want table")
}

func TestLoadFileLuaHasNoStdlib(t *testing.T) {
	path := writeFile(t, "constants.lua", []byte(`
local sandboxed = os == nil and io == nil and require == nil and load == nil and dofile == nil
return { PHYSICS_SPEED_DAMP = sandboxed and 1 or 2 }
`))
	raw, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, raw[PhysicsSpeedDamp])

	path = writeFile(t, "constants.lua", []byte(`os.exit(1) return {}`))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileLuaTimeout(t *testing.T) {
	prev := luaTimeout
	luaTimeout = 50 * time.Millisecond
	t.Cleanup(func() { luaTimeout = prev })

	path := writeFile(t, "constants.lua", []byte(`while true do end return {}`))
	start := time.Now()
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "deadline")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadFileLuaBoolIsInvalid(t *testing.T) {
	path := writeFile(t, "constants.lua", []byte(`return { STEALTH_MIN_DIST = true }`))
	raw, err := LoadFile(path)
	require.NoError(t, err)
	_, err = Resolve(DefaultSchema(), raw)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFileUnsupportedExt(t *testing.T) {
	path := writeFile(t, "constants.ini", []byte("PHYSICS_SPEED_DAMP=1"))
	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestLoadFileMalformedJSON(t *testing.T) {
	path := writeFile(t, "constants.json", []byte(`{"PHYSICS_SPEED_DAMP": `))
	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "parse constants")
}

func TestLoadFileNullIsAbsent(t *testing.T) {
	path := writeFile(t, "constants.json", []byte(`{"EW_ASTEROID_DIST": null}`))
	raw, err := LoadFile(path)
	require.NoError(t, err)

	_, err = Resolve(DefaultSchema().WithoutDefault(EWAsteroidDist), raw)
	assert.ErrorIs(t, err, ErrMissingValue)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		data string
	}{
		{"json second object", ".json", `{"STEALTH_MIN_DIST": 1000} {"STEALTH_MIN_DIST": -5}`},
		{"json garbage", ".json", `{"STEALTH_MIN_DIST": 1000} garbage`},
		{"yaml second document", "yaml", "STEALTH_MIN_DIST: 1000\n---\nSTEALTH_MIN_DIST: -5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.ext, []byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestDecodeMsgpackRejectsTrailingData(t *testing.T) {
	first, err := msgpack.Marshal(map[string]any{StealthMinDist: 1000.0})
	require.NoError(t, err)
	second, err := msgpack.Marshal(map[string]any{StealthMinDist: -5.0})
	require.NoError(t, err)

	_, err = Decode("msgpack", append(first, second...))
	assert.ErrorIs(t, err, errTrailingData)
}

func TestDecodeAllowsTrailingWhitespace(t *testing.T) {
	raw, err := Decode("json", []byte("{\"STEALTH_MIN_DIST\": 1000}\n\n"))
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	raw, err = Decode("yaml", []byte("STEALTH_MIN_DIST: 1000\n"))
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	raw, err = Decode("yml", nil)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestLoadFileExtensionAliases(t *testing.T) {
	yml := writeFile(t, "constants.yml", []byte("STEALTH_MIN_DIST: 1200\n"))
	raw, err := LoadFile(yml)
	require.NoError(t, err)
	assert.Equal(t, 1200, raw[StealthMinDist])

	data, err := msgpack.Marshal(map[string]any{StealthMinDist: 1300.0})
	require.NoError(t, err)
	raw, err = LoadFile(writeFile(t, "constants.mpk", data))
	require.NoError(t, err)
	assert.Equal(t, 1300.0, raw[StealthMinDist])

	raw, err = LoadFile(writeFile(t, "CONSTANTS.JSON", []byte(`{"STEALTH_MIN_DIST": 1400}`)))
	require.NoError(t, err)
	tbl, err := Resolve(DefaultSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, 1400.0, tbl.StealthMinDist)
}

func TestDecodeExtensionWithoutDot(t *testing.T) {
	for _, ext := range []string{"json", ".json", "JSON"} {
		raw, err := Decode(ext, []byte(`{"EW_ASTEROID_DIST": 75}`))
		require.NoError(t, err, ext)
		tbl, err := Resolve(DefaultSchema(), raw)
		require.NoError(t, err, ext)
		assert.Equal(t, 75.0, tbl.EWAsteroidDist, ext)
	}
}
