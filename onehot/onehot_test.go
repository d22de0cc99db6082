package onehot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/window"
)

const rainbow = "red and yellow and pink and green, orange and purple and blue, I can sing a rainbow, sing a rainbow, sing a rainbow too"

func sampleRainbow(t *testing.T) (contexts []string, next []rune) {
	t.Helper()
	ws, err := window.Sample(window.Pad(rainbow, 160), 40, 3)
	require.NoError(t, err)
	for _, w := range ws {
		contexts = append(contexts, w.Context)
		next = append(next, w.Next)
	}
	return contexts, next
}

// TestEncodeDecodeRoundTrip checks the reconstructed text against the padded
// source text, not against the decoder's own output.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	req := require.New(t)
	idx := alphabet.NewUniversal()
	contexts, next := sampleRainbow(t)

	x, err := EncodeContexts(contexts, idx)
	req.NoError(err)
	y, err := EncodeTargets(next, idx)
	req.NoError(err)

	req.Equal([]int{40, 40, idx.Len()}, x.Dims)
	req.Equal([]int{40, idx.Len()}, y.Dims)

	padded := []rune(window.Pad(rainbow, 160))
	for i := 0; i < len(contexts); i++ {
		got, err := DecodeExample(x, y, idx, i, false)
		req.NoError(err)
		req.Equal(string(padded[i*3:i*3+41]), got, "example %d", i)
	}
}

func TestDecodeExampleSeparator(t *testing.T) {
	req := require.New(t)
	idx := alphabet.NewUniversal()

	x, err := EncodeContexts([]string{"abc", "bcd"}, idx)
	req.NoError(err)
	y, err := EncodeTargets([]rune{'d', 'e'}, idx)
	req.NoError(err)

	got, err := DecodeExample(x, y, idx, 1, true)
	req.NoError(err)
	req.Equal("bcd:e", got)
}

func TestRowSumsAreOne(t *testing.T) {
	req := require.New(t)
	chars := alphabet.NewUniversal()
	labels := alphabet.Labels([]string{":fire:", ":rainbow:", ":smile:"})
	contexts, next := sampleRainbow(t)

	x, err := EncodeContexts(contexts, chars)
	req.NoError(err)
	y, err := EncodeTargets(next, chars)
	req.NoError(err)
	l, err := EncodeLabels([]string{":smile:", ":fire:", ":rainbow:", ":fire:"}, labels)
	req.NoError(err)

	for name, tensor := range map[string]Tensor{"contexts": x, "targets": y, "labels": l} {
		for k, s := range tensor.VectorSums() {
			req.Equal(float32(1), s, "%s vector %d", name, k)
		}
	}
	req.Equal([]int{4, 3}, l.Dims)
	req.Equal(float32(1), l.Vector(1)[0])
}

func TestEncodeUnknownSymbolFails(t *testing.T) {
	req := require.New(t)
	chars := alphabet.NewUniversal()

	_, err := EncodeContexts([]string{"ab€"}, chars)
	req.ErrorIs(err, alphabet.ErrUnknownSymbol)

	_, err = EncodeTargets([]rune{'a', 'é'}, chars)
	req.ErrorIs(err, alphabet.ErrUnknownSymbol)

	_, err = EncodeLabels([]string{":ghost:"}, alphabet.Labels([]string{":fire:"}))
	req.ErrorIs(err, alphabet.ErrUnknownSymbol)
}

func TestEncodeContextsRejectsRaggedInput(t *testing.T) {
	_, err := EncodeContexts([]string{"abc", "ab"}, alphabet.NewUniversal())
	require.ErrorIs(t, err, ErrShape)
}

func TestPutOverwritesVector(t *testing.T) {
	req := require.New(t)
	idx := alphabet.Build([]rune("abc"))
	dst := NewTensor(2, 3)

	req.NoError(Put(dst, 0, 'a', idx))
	req.NoError(Put(dst, 0, 'c', idx))
	req.Equal([]float32{0, 0, 1, 0, 0, 0}, dst.Data)

	err := Put(NewTensor(2, 4), 0, 'a', idx)
	req.ErrorIs(err, ErrShape)
}

func TestArgmax(t *testing.T) {
	req := require.New(t)
	req.Equal(2, Argmax([]float32{0, 0, 1, 0}))
	req.Equal(0, Argmax([]float32{0, 0, 0}))
	req.Equal(1, Argmax([]float32{0.2, 0.7, 0.7}))
	req.Equal(-1, Argmax(nil))
}

func TestDecodeRowRejectsEmptyRow(t *testing.T) {
	req := require.New(t)
	_, err := DecodeRow(nil, alphabet.Build([]string{}))
	req.ErrorIs(err, ErrShape)

	_, err = DecodeRow([]float32{}, alphabet.Build([]rune("ab")))
	req.ErrorIs(err, ErrShape)

	got, err := DecodeRow([]float32{0, 1}, alphabet.Build([]rune("ab")))
	req.NoError(err)
	req.Equal('b', got)
}

func TestDecodeExampleShapeErrors(t *testing.T) {
	req := require.New(t)
	idx := alphabet.Build([]rune("ab"))
	x := NewTensor(2, 3, 2)
	y := NewTensor(2, 2)

	_, err := DecodeExample(x, y, idx, 2, false)
	req.ErrorIs(err, ErrShape)

	_, err = DecodeExample(y, y, idx, 0, false)
	req.ErrorIs(err, ErrShape)

	_, err = DecodeExample(x, NewTensor(3, 2), idx, 0, false)
	req.ErrorIs(err, ErrShape)

	_, err = DecodeExample(NewTensor(2, 3, 5), y, idx, 0, false)
	req.ErrorIs(err, ErrShape)
}

func TestTensorViews(t *testing.T) {
	req := require.New(t)
	x := NewTensor(2, 3, 4)
	req.Equal(4, x.Width())
	req.Equal(6, x.Vectors())
	req.Len(x.Row(1), 12)

	x.Row(1)[0] = 1
	req.Equal(float32(1), x.Data[12])

	c := x.Clone()
	x.Zero()
	req.Equal(float32(0), x.Data[12])
	req.Equal(float32(1), c.Data[12])

	flat, err := c.Reshape(6, 4)
	req.NoError(err)
	req.Equal(float32(1), flat.Vector(3)[0])

	_, err = c.Reshape(5, 4)
	req.ErrorIs(err, ErrShape)
}

func TestToGomlx(t *testing.T) {
	req := require.New(t)
	idx := alphabet.NewUniversal()
	y, err := EncodeTargets([]rune("hello"), idx)
	req.NoError(err)

	g := y.ToGomlx()
	req.NotNil(g)
	req.Equal([]int{5, idx.Len()}, g.Shape().Dimensions)

	// the gomlx tensor owns a copy
	y.Zero()
	req.Equal([]int{5, idx.Len()}, g.Shape().Dimensions)
}
