package aml

import "go.uber.org/zap"

// SizeClassAverages are the empirically tuned words/values/blocks/params
// per instruction used by Allocator to size a fresh Function record for a
// given instruction-count upper bound (spec.md §4.B).
type SizeClassAverages struct {
	// WordsPerInstr ("W") accounts for the 2-word instruction header plus
	// the average operand count across the opcode table.
	WordsPerInstr float64
	// ValuesPerInstr ("V") sizes the value table. Several opcodes
	// (PTR_STORE, branches, RETURN, ...) produce no SSA value, but the
	// table also holds values added directly through Builder.ValueAdd,
	// such as function parameters; the default of 1.2 leaves room above
	// one value per instruction.
	ValuesPerInstr float64
	// BasicBlocksPerInstr ("B") is small; blocks are comparatively rare.
	BasicBlocksPerInstr float64
	// BasicBlockParamsPerInstr ("P") is smaller still.
	BasicBlockParamsPerInstr float64
}

// DefaultSizeClassAverages are the constants this package documents and
// ships with, per spec.md §4.B's requirement that the implementation
// "chooses these constants but must document them".
var DefaultSizeClassAverages = SizeClassAverages{
	WordsPerInstr:            6,
	ValuesPerInstr:           1.2,
	BasicBlocksPerInstr:      0.15,
	BasicBlockParamsPerInstr: 0.1,
}

// SizeClassRange bounds the size-class exponent k = ceil_log2(maxInstrs)
// (spec.md §4.B).
type SizeClassRange struct {
	// KMin is the smallest size class; no Function is ever sized below
	// 2^KMin instructions.
	KMin int
	// KMax is exclusive; a requested size class >= KMax is a fatal
	// resource-exhaustion abort.
	KMax int
}

// DefaultSizeClassRange sizes Functions from 2^2 = 4 up to 2^19
// instructions; KMax=20 is exclusive, so any request above 2^19 aborts.
var DefaultSizeClassRange = SizeClassRange{KMin: 2, KMax: 20}

// PoolConfig tunes one Pool's paging behavior (spec.md §4.A).
type PoolConfig struct {
	// GrowCount is the page size new pages are allocated with, in units of
	// T, when the current page runs out of room.
	GrowCount int
	// ReserveCap is the hard ceiling on total capacity ever handed out by
	// the pool; exceeding it is a fatal resource-exhaustion abort.
	ReserveCap int
}

// DefaultPoolConfig sizes pages generously enough to amortize the mutex
// path for typical shader-sized functions, while keeping ReserveCap well
// under what a single lowering worker could need for a single compilation
// unit.
var DefaultPoolConfig = PoolConfig{GrowCount: 4096, ReserveCap: 64 << 20}

// Config collects every tuning knob named in spec.md §6 ("Tuning knobs").
// The zero value is not valid; use NewConfig.
type Config struct {
	sizeClasses SizeClassRange
	averages    SizeClassAverages

	functionsPool       PoolConfig
	wordsPool           PoolConfig
	valuesPool          PoolConfig
	basicBlocksPool     PoolConfig
	basicBlockParamPool PoolConfig

	logger *zap.Logger
}

// NewConfig returns a Config with every knob at its documented default.
// Use the With* methods to override individual knobs; each returns a
// shallow copy, matching the pattern this option lives under in the
// teacher's own runtime configuration.
func NewConfig() *Config {
	return &Config{
		sizeClasses:         DefaultSizeClassRange,
		averages:            DefaultSizeClassAverages,
		functionsPool:       PoolConfig{GrowCount: 256, ReserveCap: 1 << 20},
		wordsPool:           DefaultPoolConfig,
		valuesPool:          DefaultPoolConfig,
		basicBlocksPool:     PoolConfig{GrowCount: 1024, ReserveCap: 16 << 20},
		basicBlockParamPool: DefaultPoolConfig,
		logger:              zap.NewNop(),
	}
}

func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// WithSizeClassRange overrides KMin/KMax (spec.md §4.B).
func (c *Config) WithSizeClassRange(r SizeClassRange) *Config {
	ret := c.clone()
	ret.sizeClasses = r
	return ret
}

// WithSizeClassAverages overrides W, V, B, P (spec.md §4.B).
func (c *Config) WithSizeClassAverages(a SizeClassAverages) *Config {
	ret := c.clone()
	ret.averages = a
	return ret
}

// WithWordsPoolConfig overrides the words Pool's GrowCount/ReserveCap.
func (c *Config) WithWordsPoolConfig(p PoolConfig) *Config {
	ret := c.clone()
	ret.wordsPool = p
	return ret
}

// WithValuesPoolConfig overrides the values Pool's GrowCount/ReserveCap.
func (c *Config) WithValuesPoolConfig(p PoolConfig) *Config {
	ret := c.clone()
	ret.valuesPool = p
	return ret
}

// WithBasicBlocksPoolConfig overrides the basic-blocks Pool's
// GrowCount/ReserveCap.
func (c *Config) WithBasicBlocksPoolConfig(p PoolConfig) *Config {
	ret := c.clone()
	ret.basicBlocksPool = p
	return ret
}

// WithBasicBlockParamsPoolConfig overrides the block-params Pool's
// GrowCount/ReserveCap.
func (c *Config) WithBasicBlockParamsPoolConfig(p PoolConfig) *Config {
	ret := c.clone()
	ret.basicBlockParamPool = p
	return ret
}

// WithLogger overrides the structured logger used for pool-growth, recycle,
// and resource-exhaustion diagnostics. Defaults to zap.NewNop(), i.e.
// silent.
func (c *Config) WithLogger(logger *zap.Logger) *Config {
	ret := c.clone()
	ret.logger = logger
	return ret
}
