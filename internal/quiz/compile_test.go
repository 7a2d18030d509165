package quiz

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"sort"
	"testing"

	"CardForge/internal/model"
	"CardForge/internal/render"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textCard(t *testing.T, qas ...string) model.Card {
	t.Helper()
	var list []model.TextQA
	for i := 0; i+1 < len(qas); i += 2 {
		list = append(list, model.TextQA{Question: qas[i], Answer: qas[i+1]})
	}
	c, err := model.NewTextCard("d", "text", list)
	require.NoError(t, err)
	return c
}

func imageCard(masks ...model.Mask) model.Card {
	return model.Card{ID: "img", Content: model.ImageContent{ImageID: "blob", Masks: masks}}
}

func TestCompile_TextOneItemPerQA(t *testing.T) {
	c := textCard(t, "q1", "a1", "q2", "a2", "q3", "a3")
	items := Compile([]model.Card{c})
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, KindText, it.Kind)
		assert.Equal(t, c.ID, it.Card.ID)
		assert.Equal(t, c.Content.(model.TextContent).TextQAs[i], *it.QA)
	}
	assert.Equal(t, "q2", items[1].Prompt())
	assert.Equal(t, "a2", items[1].Answer())
}

func TestCompile_CompositionFallback(t *testing.T) {
	c, err := model.NewCompositionCard("d", "comp", "今日は晴れです", "It is sunny today")
	require.NoError(t, err)

	items := Compile([]model.Card{c})
	require.Len(t, items, 1)
	assert.Equal(t, KindComposition, items[0].Kind)
	assert.Equal(t, model.TextQA{ID: FallbackQAID, Question: "今日は晴れです", Answer: "It is sunny today"}, *items[0].QA)
}

func TestCompile_CompositionPhrases(t *testing.T) {
	c, err := model.NewCompositionCard("d", "comp", "src", "dst")
	require.NoError(t, err)
	cc := c.Content.(model.CompositionContent)
	cc.ExtractedPhrases = []model.TextQA{{ID: "p1", Question: "a", Answer: "b"}, {ID: "p2", Question: "c", Answer: "d"}}
	c.Content = cc

	items := Compile([]model.Card{c})
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].QA.ID)
	assert.Equal(t, "p2", items[1].QA.ID)
}

func TestCompile_ImageGroupsThenUngrouped(t *testing.T) {
	c := imageCard(
		model.Mask{ID: "m1", GroupID: "g2"},
		model.Mask{ID: "m2"},
		model.Mask{ID: "m3", GroupID: "g1"},
		model.Mask{ID: "m4", GroupID: "g2"},
		model.Mask{ID: "m5"},
	)
	items := Compile([]model.Card{c})
	require.Len(t, items, 4)

	ids := func(it Item) []string {
		var out []string
		for _, m := range it.Masks {
			out = append(out, m.ID)
		}
		return out
	}
	assert.Equal(t, []string{"m1", "m4"}, ids(items[0]))
	assert.Equal(t, []string{"m3"}, ids(items[1]))
	assert.Equal(t, []string{"m2"}, ids(items[2]))
	assert.Equal(t, []string{"m5"}, ids(items[3]))
	for _, it := range items {
		assert.Equal(t, KindImage, it.Kind)
		assert.Nil(t, it.QA)
	}
	assert.Equal(t, "img/g/g2", items[0].Key())
	assert.Equal(t, "img/m/m2", items[2].Key())
}

func TestItem_FocusMasks(t *testing.T) {
	c := imageCard(
		model.Mask{ID: "m1", GroupID: "g", IsQuestion: true},
		model.Mask{ID: "m2", IsQuestion: true},
		model.Mask{ID: "m3", GroupID: "g"},
	)
	items := Compile([]model.Card{c})
	require.Len(t, items, 2)

	focus := items[0].FocusMasks()
	require.Len(t, focus, 2)
	assert.Equal(t, "m1", focus[0].ID)
	assert.True(t, focus[0].IsQuestion)
	assert.Equal(t, "m3", focus[1].ID)
	assert.False(t, focus[1].IsQuestion, "stored answer flag is kept")

	focus = items[1].FocusMasks()
	require.Len(t, focus, 1)
	assert.Equal(t, "m2", focus[0].ID)
	assert.True(t, focus[0].IsQuestion)

	focus[0].IsQuestion = false
	assert.True(t, items[1].Masks[0].IsQuestion, "result is a copy")

	assert.Nil(t, Compile([]model.Card{textCard(t, "q", "a")})[0].FocusMasks())
}

func TestItem_FocusMasksRenderAnswerRegionVisible(t *testing.T) {
	c := imageCard(
		model.Mask{ID: "q", GroupID: "g", IsQuestion: true, Rect: model.Rect{X: 0, Y: 0, Width: 10, Height: 10}},
		model.Mask{ID: "a", GroupID: "g", Rect: model.Rect{X: 20, Y: 20, Width: 10, Height: 10}},
	)
	items := Compile([]model.Card{c})
	require.Len(t, items, 1)

	img := imaging.New(40, 40, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := render.MaskedPNG(buf.Bytes(), items[0].FocusMasks(), false)
	require.NoError(t, err)
	got, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	assert.NotEqual(t, white, color.NRGBAModel.Convert(got.At(5, 5)))
	assert.Equal(t, white, color.NRGBAModel.Convert(got.At(25, 25)))
}

func TestCompile_SkipsUnquizzable(t *testing.T) {
	deleted := textCard(t, "q", "a")
	deleted.IsDeleted = true
	cards := []model.Card{
		deleted,
		{ID: "mixed", Content: model.MixedContent{ImageID: "x", Masks: []model.Mask{{ID: "m"}}, TextQAs: []model.TextQA{{ID: "q"}}}},
		{ID: "nil"},
		{ID: "noimg", Content: model.ImageContent{Masks: []model.Mask{{ID: "m"}}}},
		{ID: "nosrc", Content: model.CompositionContent{TranslatedEnglish: "x"}},
		imageCard(),
	}
	assert.Empty(t, Compile(cards))
}

func TestCompile_CoverageCount(t *testing.T) {
	comp, err := model.NewCompositionCard("d", "c", "src", "")
	require.NoError(t, err)
	cards := []model.Card{
		textCard(t, "q1", "a1", "q2", "a2"),
		comp,
		imageCard(model.Mask{ID: "a", GroupID: "g"}, model.Mask{ID: "b", GroupID: "g"}, model.Mask{ID: "c"}),
	}
	// 2 QAs + 1 fallback + 1 group + 1 ungrouped mask
	assert.Len(t, Compile(cards), 5)
}

func TestShuffle_IsPermutation(t *testing.T) {
	items := Compile([]model.Card{textCard(t, "1", "a", "2", "b", "3", "c", "4", "d", "5", "e")})
	before := keys(items)

	shuffled := Shuffle(items)
	require.Len(t, shuffled, len(items))
	assert.ElementsMatch(t, before, keys(shuffled))
	assert.Equal(t, before, keys(items), "input must not be reordered")
}

func TestShuffle_OrderVaries(t *testing.T) {
	var qas []string
	for i := 0; i < 20; i++ {
		qas = append(qas, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	items := Compile([]model.Card{textCard(t, qas...)})
	require.Len(t, items, 20)
	input := fmt.Sprint(keys(items))

	orders := make(map[string]bool)
	movedAny := false
	for i := 0; i < 5; i++ {
		order := fmt.Sprint(keys(Shuffle(items)))
		orders[order] = true
		if order != input {
			movedAny = true
		}
	}
	assert.True(t, movedAny, "shuffling 20 items should change their order")
	assert.Greater(t, len(orders), 1, "repeated shuffles should be independent")
}

func TestShuffleWith_Deterministic(t *testing.T) {
	items := Compile([]model.Card{textCard(t, "1", "a", "2", "b", "3", "c")})
	// always picking index 0 rotates the slice left
	out := ShuffleWith(func(int) int { return 0 }, items)
	assert.Equal(t, []string{items[1].Key(), items[2].Key(), items[0].Key()}, keys(out))

	assert.Empty(t, Shuffle(nil))
}

func keys(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func sortedKeys(items []Item) []string {
	out := keys(items)
	sort.Strings(out)
	return out
}
