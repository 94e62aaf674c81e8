package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"gorm.io/gorm"
)

var fileSeq atomic.Int64

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		Email:        email,
		PasswordHash: "pw",
		Joined:       now,
		LastSeen:     now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, members ...int64) *types.Group {
	tb.Helper()
	g := &types.Group{GroupName: name}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	for _, uid := range members {
		if err := tx.WithContext(ctx).Create(&types.GroupMembership{UserID: uid, GroupID: g.ID}).Error; err != nil {
			tb.Fatalf("seed group membership: %v", err)
		}
	}
	return g
}

func SeedNugget(tb testing.TB, ctx context.Context, tx *gorm.DB, summary string) *types.SkillNugget {
	tb.Helper()
	n := &types.SkillNugget{Summary: summary, CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed nugget: %v", err)
	}
	return n
}

func SeedNarrator(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, published bool) *types.Narrator {
	tb.Helper()
	n := &types.Narrator{Name: name, Published: published}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed narrator: %v", err)
	}
	return n
}

// SeedBundle creates a bundle with files recorded by narratorID. files may be 0.
func SeedBundle(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, narratorID int64, files int) *types.AudioBundle {
	tb.Helper()
	b := &types.AudioBundle{ListName: name}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed bundle: %v", err)
	}
	for i := 0; i < files; i++ {
		f := types.AudioFile{
			BundleID:   b.ID,
			NarratorID: narratorID,
			File:       fmt.Sprintf("%s-%d.mp3", name, i),
			Mime:       "audio/mpeg",
			FileSHA2:   fmt.Sprintf("sha-%s-%d-%d", name, i, fileSeq.Add(1)),
		}
		if err := tx.WithContext(ctx).Create(&f).Error; err != nil {
			tb.Fatalf("seed audio file: %v", err)
		}
		b.Files = append(b.Files, f)
	}
	return b
}

func SeedWord(tb testing.TB, ctx context.Context, tx *gorm.DB, word string, nuggetID, bundleID int64) *types.Word {
	tb.Helper()
	w := &types.Word{
		Word:          word,
		Explanation:   "explanation of " + word,
		AudioBundleID: bundleID,
		SkillNuggetID: nuggetID,
		Published:     true,
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed word: %v", err)
	}
	return w
}

// SeedQuestion creates a published question with one answer per prompt bundle.
func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, nuggetID int64, texts []string, promptBundles []int64) *types.Question {
	tb.Helper()
	if len(texts) != len(promptBundles) {
		tb.Fatalf("seed question: %d texts for %d bundles", len(texts), len(promptBundles))
	}
	q := &types.Question{
		SkillNuggetID: nuggetID,
		QName:         "q",
		QExplanation:  "which one did you hear?",
		QuestionText:  "choose",
		SkillLevel:    2,
		Published:     true,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	for i, text := range texts {
		a := types.Answer{QuestionID: q.ID, AnswerText: text, QAudioBundleID: promptBundles[i]}
		if err := tx.WithContext(ctx).Create(&a).Error; err != nil {
			tb.Fatalf("seed answer: %v", err)
		}
		q.Answers = append(q.Answers, a)
	}
	return q
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, nuggetID int64, wordIDs ...int64) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{SkillNuggetID: nuggetID, SkillLevel: 2, Published: true}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	for _, wid := range wordIDs {
		v := types.ExerciseVariant{ExerciseID: e.ID, WordID: wid}
		if err := tx.WithContext(ctx).Create(&v).Error; err != nil {
			tb.Fatalf("seed exercise variant: %v", err)
		}
		e.Variants = append(e.Variants, v)
	}
	return e
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, nuggetID int64, level int) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.SkillData{UserID: userID, SkillNuggetID: nuggetID, SkillLevel: level}).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Event {
	tb.Helper()
	ev := &types.Event{Name: name, Published: true}
	if err := tx.WithContext(ctx).Create(ev).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return ev
}

func Ptr[T any](v T) *T { return &v }
