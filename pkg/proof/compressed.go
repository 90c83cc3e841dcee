package proof

import (
	"math"
	"strings"

	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/store"
)

// fma computes mul*num+add, reporting overflow rather than wrapping.
func fma(num, mul, add uint64) (uint64, bool) {
	if num > math.MaxUint64/mul || mul*num > math.MaxUint64-add {
		return 0, false
	}
	return mul*num + add, true
}

// decodeNumbers turns a compressed-proof letter stream into the raw number
// sequence: 'A'..'T' (value 1..20) ends a number; 'U'..'Y' (value 1..5) is
// a base-5 continuation digit; 'Z' emits a literal 0 (SAVE) and must
// immediately follow a completed number.
func decodeNumbers(label string, letters string) ([]uint64, error) {
	var result []uint64
	var num uint64
	justGotNum := false

	for _, c := range letters {
		switch {
		case c >= 'A' && c <= 'T':
			n, ok := fma(num, 20, uint64(c-'A'+1))
			if !ok {
				return nil, &mmerr.Overflow{}
			}
			num = n
			result = append(result, num)
			num = 0
			justGotNum = true

		case c >= 'U' && c <= 'Y':
			n, ok := fma(num, 5, uint64(c-'T'))
			if !ok {
				return nil, &mmerr.Overflow{}
			}
			num = n
			justGotNum = false

		case c == 'Z':
			if !justGotNum {
				return nil, &mmerr.EncodingError{What: "stray Z"}
			}
			result = append(result, 0)
			justGotNum = false

		default:
			return nil, &mmerr.EncodingError{What: "bad character in compressed proof"}
		}
	}

	if num != 0 {
		return nil, &mmerr.Unterminated{}
	}
	return result, nil
}

// DecodeCompressed expands a compressed proof's label list and letter
// stream into a Step sequence (HYP/THM from the labels, LOAD/SAVE from
// out-of-range and zero numbers). labels is the ordered list: the
// assertion's mandatory hypotheses, in the order recorded on the
// assertion, followed by the parenthesized labels from the source.
func DecodeCompressed(label string, labels []*labelRef, letters string) ([]store.Step, error) {
	nums, err := decodeNumbers(label, letters)
	if err != nil {
		return nil, err
	}

	steps := make([]store.Step, 0, len(nums))
	for _, n := range nums {
		switch {
		case n == 0:
			steps = append(steps, store.SaveStep())
		case int(n) <= len(labels):
			ref := labels[n-1]
			steps = append(steps, ref.step())
		default:
			steps = append(steps, store.LoadStep(int(n)-len(labels)-1))
		}
	}
	return steps, nil
}

// labelRef is either a hypothesis or an assertion label entry in a
// compressed proof's label list.
type labelRef struct {
	Hyp *store.Hypothesis
	Thm *store.Assertion
}

// LabelRef names labelRef for callers outside the package (ingest, which
// builds a compressed proof's label list from resolved source tokens).
type LabelRef = labelRef

func HypRef(h *store.Hypothesis) *labelRef { return &labelRef{Hyp: h} }
func ThmRef(a *store.Assertion) *labelRef  { return &labelRef{Thm: a} }

func (r *labelRef) step() store.Step {
	if r.Hyp != nil {
		return store.HypStep(r.Hyp)
	}
	return store.ThmStep(r.Thm)
}

// EncodeCompressed is the inverse of DecodeCompressed: given a step
// sequence that only references labels present in labels (by the same
// indexing rule) and whose LOAD targets are all within range, it
// reconstructs the base-20/base-5 letter stream. It fails if a step
// references a label not present in labels.
func EncodeCompressed(steps []store.Step, labels []*labelRef) (string, error) {
	index := make(map[string]int, len(labels))
	for i, r := range labels {
		index[r.label()] = i + 1
	}

	var nums []uint64
	for _, s := range steps {
		switch s.Tag {
		case store.StepSave:
			nums = append(nums, 0)
		case store.StepLoad:
			nums = append(nums, uint64(len(labels)+1+s.Index))
		case store.StepHyp, store.StepThm:
			n, ok := index[s.Label()]
			if !ok {
				return "", &mmerr.EncodingError{What: "label not in compressed-proof label list: " + s.Label()}
			}
			nums = append(nums, uint64(n))
		}
	}

	var sb strings.Builder
	for _, n := range nums {
		if n == 0 {
			sb.WriteByte('Z')
			continue
		}
		encodeNumber(&sb, n)
	}
	return sb.String(), nil
}

func (r *labelRef) label() string {
	if r.Hyp != nil {
		return r.Hyp.Label
	}
	return r.Thm.Label
}

// encodeNumber writes n (n >= 1) as zero or more base-5 continuation
// letters ('U'..'Y', digit values 1..5) followed by one terminating
// base-20 letter ('A'..'T', digit value 1..20) — the bijective mixed-radix
// encoding decodeNumbers inverts.
func encodeNumber(sb *strings.Builder, n uint64) {
	m := n - 1
	d0 := m%20 + 1
	num := m / 20

	var cont []uint64
	for num > 0 {
		m2 := num - 1
		cont = append(cont, m2%5+1)
		num = m2 / 5
	}
	for i := len(cont) - 1; i >= 0; i-- {
		sb.WriteByte(byte('T' + cont[i]))
	}
	sb.WriteByte(byte('A' + d0 - 1))
}
