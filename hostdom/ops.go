package hostdom

import "slices"

type OpKind uint8

const (
	OpCreate OpKind = iota
	OpInsert
	OpMove
	OpRemove
	OpSetText
	OpProp
	OpClass
	OpListen
	OpInvokerSwap
	OpUnlisten
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	case OpSetText:
		return "text"
	case OpProp:
		return "prop"
	case OpClass:
		return "class"
	case OpListen:
		return "listen"
	case OpInvokerSwap:
		return "invoker_swap"
	case OpUnlisten:
		return "unlisten"
	default:
		return "unknown"
	}
}

// Op is one recorded mutation.
type Op struct {
	Kind   OpKind
	Node   int
	Detail string
}

func (d *Document) record(kind OpKind, n *Node, detail string) {
	d.ops = append(d.ops, Op{Kind: kind, Node: n.ID, Detail: detail})
}

func (d *Document) Ops() []Op { return slices.Clone(d.ops) }

func (d *Document) ResetOps() { d.ops = nil }

// Stats tallies recorded operations by kind.
type Stats map[OpKind]int

func (d *Document) Stats() Stats {
	s := Stats{}
	for _, op := range d.ops {
		s[op.Kind]++
	}
	return s
}

// Mutations counts operations that change the tree. Swapping the target of
// an existing listener is not a mutation.
func (s Stats) Mutations() int {
	total := 0
	for k, n := range s {
		if k != OpInvokerSwap {
			total += n
		}
	}
	return total
}
