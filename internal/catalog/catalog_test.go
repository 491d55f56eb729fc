package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	all, err := Subjects()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Mathematics", all[0].Name)
	assert.Equal(t, "Physics", all[1].Name)
}

func TestLookup(t *testing.T) {
	s, err := Lookup("maths")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", s.Name)

	s, err = Lookup("PHYSICS")
	require.NoError(t, err)
	assert.Equal(t, "physics", s.Patterns)

	_, err = Lookup("biology")
	assert.True(t, errors.Is(err, ErrUnknownSubject))
}

func TestForFile(t *testing.T) {
	s, ok := ForFile("/books/Physics/LEPH103.pdf")
	require.True(t, ok)
	assert.Equal(t, "Physics", s.Dir)

	_, ok = ForFile("notes.pdf")
	assert.False(t, ok)
}

func TestChapter(t *testing.T) {
	maths, err := Lookup("Maths")
	require.NoError(t, err)

	c, ok := maths.Chapter("in/lemh1a1.PDF")
	require.True(t, ok)
	assert.Equal(t, "A1", c.Chapter)
	assert.Equal(t, "Mathematical Induction", c.Title)

	_, ok = maths.Chapter("lemh999.pdf")
	assert.False(t, ok)

	fb := maths.Fallback()
	assert.Equal(t, ChapterInfo{Chapter: UnknownChapter, Title: "Mathematics", Topics: []string{"mathematics"}}, fb)
	assert.Equal(t, "Matrices", maths.ChapterTitle("3"))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "A1", "A2", "PS", "AN"}, maths.ChapterOrder())
}

func TestRelevantTopics(t *testing.T) {
	maths, err := Lookup("Maths")
	require.NoError(t, err)
	physics, err := Lookup("Physics")
	require.NoError(t, err)

	functions, _ := maths.Chapter("lemh101.pdf")
	gravitation, _ := physics.Chapter("leph106.pdf")

	tests := []struct {
		name     string
		subject  *Subject
		chapter  ChapterInfo
		question string
		want     []string
	}{
		{
			name:     "topic words found in question",
			subject:  maths,
			chapter:  functions,
			question: "Find the domain and range of the functions f and g?",
			want:     []string{"functions", "domain", "range"},
		},
		{
			name:     "first two topics when nothing matches",
			subject:  maths,
			chapter:  functions,
			question: "Prove that 7 is prime?",
			want:     []string{"relations", "functions"},
		},
		{
			name:     "capped at the subject limit",
			subject:  physics,
			chapter:  gravitation,
			question: "A satellite in orbital motion has escape velocity of what?",
			want:     []string{"orbital motion", "escape velocity"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.subject.RelevantTopics(tt.chapter, tt.question))
		})
	}
}

func TestSubjectLookups(t *testing.T) {
	physics, err := Lookup("Physics")
	require.NoError(t, err)

	assert.Len(t, physics.TipsFor("Kinematics"), 5)
	assert.Equal(t, physics.DefaultTips, physics.TipsFor("Problem Solving"))
	assert.Equal(t, "F = ma, p = mv, J = FΔt = Δp", physics.FormulaFor("Laws of Motion"))
	assert.Equal(t, "Physics formulas for this chapter", physics.FormulaFor("Answers"))
	assert.Contains(t, physics.VisualizationFor("2"), "Projectile Path")
	assert.Contains(t, physics.VisualizationFor("PS"), "Measurement and Units")

	c, _ := physics.Chapter("leph106.pdf")
	assert.Equal(t, "This problem involves fundamental concepts from Chapter 6: Gravitation. Understanding these concepts is crucial for solving physics problems systematically.", physics.Intro(c))

	e, ok := physics.Explanation("gravitation")
	require.True(t, ok)
	assert.Contains(t, e, "Kepler's Laws")

	maths, err := Lookup("Maths")
	require.NoError(t, err)
	assert.Empty(t, maths.VisualizationFor("3"))
	assert.Empty(t, maths.FormulaFor("Matrices"))
}

func TestSampleBooks(t *testing.T) {
	books, err := SampleBooks()
	require.NoError(t, err)
	require.Len(t, books, 3)

	chem := books[0]
	assert.Equal(t, "Chemistry", chem.Subject)
	assert.Equal(t, "Chemistry", chem.Dir)
	p := chem.Chapters[0].Problems[0]
	assert.Equal(t, 12, p.Number(0))
	assert.Equal(t, "Write the balanced reduction half-reaction", p.Tips[0])

	assert.Equal(t, "Maths", books[1].Dir)
	assert.Equal(t, "Physics", books[2].Dir)
	assert.Equal(t, 2, books[2].Chapters[0].Problems[1].Number(1))
}

func TestLoadBookErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "no subject", body: "chapters: []\n", want: "without a subject"},
		{name: "no chapter number", body: "subject: Physics\nchapters:\n  - title: X\n", want: "missing number"},
		{name: "no question", body: "subject: Physics\nchapters:\n  - number: \"1\"\n    problems:\n      - title: X\n", want: "missing question"},
		{
			name: "duplicate numbers",
			body: "subject: Physics\nchapters:\n  - number: \"1\"\n    problems:\n      - question: first question\n      - num: 1\n        question: second question\n",
			want: "used twice",
		},
		{name: "chapter number without letters or digits", body: "subject: Physics\nchapters:\n  - number: \"??\"\n    problems:\n      - question: first question\n", want: "no letters or digits"},
		{name: "bad yaml", body: "subject: [", want: "book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, "book.yaml")
			require.NoError(t, os.WriteFile(file, []byte(tt.body), 0o644))
			_, err := LoadBook(file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadBook(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	for in, want := range map[string]string{
		"3":       "3",
		"A1":      "A1",
		" 3 / b ": "3-b",
		"PS":      "PS",
		"../x":    "x",
		"??":      "",
		"":        "",
	} {
		assert.Equal(t, want, Label(in), "label %q", in)
	}
}

func TestParseBookCleansChapterNumbers(t *testing.T) {
	b, err := ParseBook([]byte("subject: Maths\nchapters:\n  - number: \" 3 / b \"\n    problems:\n      - question: What is a matrix of order 2?\n"))
	require.NoError(t, err)
	require.Len(t, b.Chapters, 1)
	assert.Equal(t, "3-b", b.Chapters[0].Number)
	assert.Equal(t, "Maths", b.Dir)
}
