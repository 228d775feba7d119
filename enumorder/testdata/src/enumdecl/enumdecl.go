package enumdecl

type Color int32

const (
	ColorNone Color = iota
	ColorBlue
	ColorGreen
	ColorRed
)

type Fruit int32

const (
	FruitNone Fruit = iota
	// FruitPear 梨。
	FruitPear
	FruitApple // want `enum Fruit: member FruitApple breaks ascending name order`
	FruitMango
)

type Status int32

const (
	StatusActive Status = iota // want `enum Status: zero member StatusActive must be named None or StatusNone`
	StatusIdle
)

type Letter int32

const (
	LetterCharlie Letter = iota // want `enum Letter: zero member LetterCharlie must be named None or LetterNone`
	LetterNone
	LetterAlpha
)

type Flag uint32

const (
	FlagRead Flag = 1 << iota
	FlagWrite
)

const (
	MaxRetries = 3
	MinRetries = 1
)

type Mode int32

const (
	ModeNone Mode = iota
	ModeBatch
	ModeStream Mode = 9 // want `enum Mode: member ModeStream must be bare, inheriting its value from iota`
)

// Level 显式赋值，成员顺序承载语义，不在检查范围内。
type Level int32

const (
	LevelHigh Level = 2
	LevelLow  Level = 1
)
