package command

import "github.com/markchadwick/memcake/wire"

// Kind is the closed set of command variants memcake supports. It plays
// the role the source's SetCommand/AddCommand/IncrementCommand/
// DecrementCommand inheritance hierarchy plays, flattened into a tagged
// variant (Design Notes §9: "prefer the tagged variant when the set is
// closed — it is").
type Kind int

const (
	KindGet Kind = iota
	KindGetQ
	KindGetK
	KindGetKQ
	KindSet
	KindSetQ
	KindAdd
	KindAddQ
	KindReplace
	KindReplaceQ
	KindDelete
	KindDeleteQ
	KindIncrement
	KindIncrementQ
	KindDecrement
	KindDecrementQ
	KindAppend
	KindAppendQ
	KindPrepend
	KindPrependQ
	KindFlush
	KindFlushQ
	KindNoOp
	KindVersion
	KindQuit
	KindQuitQ
	KindStat
)

var kindOpCode = map[Kind]wire.OpCode{
	KindGet:        wire.Get,
	KindGetQ:       wire.GetQ,
	KindGetK:       wire.GetK,
	KindGetKQ:      wire.GetKQ,
	KindSet:        wire.Set,
	KindSetQ:       wire.SetQ,
	KindAdd:        wire.Add,
	KindAddQ:       wire.AddQ,
	KindReplace:    wire.Replace,
	KindReplaceQ:   wire.ReplaceQ,
	KindDelete:     wire.Delete,
	KindDeleteQ:    wire.DeleteQ,
	KindIncrement:  wire.Increment,
	KindIncrementQ: wire.IncrementQ,
	KindDecrement:  wire.Decrement,
	KindDecrementQ: wire.DecrementQ,
	KindAppend:     wire.Append,
	KindAppendQ:    wire.AppendQ,
	KindPrepend:    wire.Prepend,
	KindPrependQ:   wire.PrependQ,
	KindFlush:      wire.Flush,
	KindFlushQ:     wire.FlushQ,
	KindNoOp:       wire.NoOp,
	KindVersion:    wire.Version,
	KindQuit:       wire.Quit,
	KindQuitQ:      wire.QuitQ,
	KindStat:       wire.Stat,
}

// OpCode returns the wire opcode for k.
func (k Kind) OpCode() wire.OpCode {
	return kindOpCode[k]
}

// IsQuiet reports whether k is a quiet variant.
func (k Kind) IsQuiet() bool {
	return k.OpCode().IsQuiet()
}
