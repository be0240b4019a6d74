package tagops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field)        {}
func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }

type fakeTagRepo struct {
	tag.Repository

	created     []string
	renamed     map[int64]string
	deleted     []int64
	merged      [][2]int64
	assigned    map[int64][]int64
	listResult  []tag.Tag
	listCalls   int
	nextID      int64
	returnError error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{renamed: map[int64]string{}, assigned: map[int64][]int64{}, nextID: 100}
}

func (f *fakeTagRepo) Create(_ context.Context, name string) (*tag.Tag, error) {
	if f.returnError != nil {
		return nil, f.returnError
	}
	f.nextID++
	f.created = append(f.created, name)
	return &tag.Tag{ID: f.nextID, Name: name}, nil
}

func (f *fakeTagRepo) Rename(_ context.Context, id int64, name string) (*tag.Tag, error) {
	if f.returnError != nil {
		return nil, f.returnError
	}
	f.renamed[id] = name
	return &tag.Tag{ID: id, Name: name}, nil
}

func (f *fakeTagRepo) Delete(_ context.Context, id int64) error {
	if f.returnError != nil {
		return f.returnError
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTagRepo) Merge(_ context.Context, sourceID, targetID int64) error {
	if f.returnError != nil {
		return f.returnError
	}
	f.merged = append(f.merged, [2]int64{sourceID, targetID})
	return nil
}

func (f *fakeTagRepo) SetTagsForImage(_ context.Context, imageID int64, tagIDs []int64) error {
	if f.returnError != nil {
		return f.returnError
	}
	f.assigned[imageID] = tagIDs
	return nil
}

func (f *fakeTagRepo) List(_ context.Context) ([]tag.Tag, error) {
	f.listCalls++
	if f.returnError != nil {
		return nil, f.returnError
	}
	return f.listResult, nil
}

type fakeTagCache struct {
	list        []tag.Tag
	invalidated int
	sets        int
	getErr      error
}

func (f *fakeTagCache) GetList(context.Context) ([]tag.Tag, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.list, nil
}

func (f *fakeTagCache) SetList(_ context.Context, tags []tag.Tag) error {
	f.sets++
	f.list = tags
	return nil
}

func (f *fakeTagCache) Invalidate(context.Context) error {
	f.invalidated++
	f.list = nil
	return nil
}

type fakePublisher struct {
	tagEvents   []string
	imageEvents []string
}

func (f *fakePublisher) PublishTagEvent(_ context.Context, eventType string, _ any) error {
	f.tagEvents = append(f.tagEvents, eventType)
	return nil
}

func (f *fakePublisher) PublishImageEvent(_ context.Context, eventType string, _ any) error {
	f.imageEvents = append(f.imageEvents, eventType)
	return nil
}

type fakeImageRepo struct {
	image.Repository
	images map[int64]image.Image
}

func (f *fakeImageRepo) FindByID(_ context.Context, id int64) (*image.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, apperror.NewNotFound("image", "")
	}
	return &img, nil
}

func TestCreateTag(t *testing.T) {
	repo := newFakeTagRepo()
	cache := &fakeTagCache{}
	pub := &fakePublisher{}
	uc := NewCreateTagUseCase(repo, cache, pub, nopLogger{})

	out, err := uc.Execute(context.Background(), CreateTagInput{Name: "  sunset  "})
	require.NoError(t, err)
	assert.Equal(t, "sunset", out.Tag.Name)
	assert.Positive(t, out.Tag.ID)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{"tag.created"}, pub.tagEvents)
}

func TestCreateTag_EmptyName(t *testing.T) {
	uc := NewCreateTagUseCase(newFakeTagRepo(), &fakeTagCache{}, &fakePublisher{}, nopLogger{})

	for _, name := range []string{"", "   ", "\t\n"} {
		out, err := uc.Execute(context.Background(), CreateTagInput{Name: name})
		assert.Nil(t, out)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	}
}

func TestRenameTag(t *testing.T) {
	repo := newFakeTagRepo()
	cache := &fakeTagCache{}
	pub := &fakePublisher{}
	uc := NewRenameTagUseCase(repo, cache, pub, nopLogger{})

	out, err := uc.Execute(context.Background(), RenameTagInput{TagID: 7, Name: "dusk"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.Tag.ID)
	assert.Equal(t, "dusk", out.Tag.Name)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{"tag.renamed"}, pub.tagEvents)
}

func TestRenameTag_Invalid(t *testing.T) {
	uc := NewRenameTagUseCase(newFakeTagRepo(), &fakeTagCache{}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), RenameTagInput{TagID: 0, Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), RenameTagInput{TagID: 3, Name: "  "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestDeleteTag(t *testing.T) {
	repo := newFakeTagRepo()
	cache := &fakeTagCache{}
	pub := &fakePublisher{}
	uc := NewDeleteTagUseCase(repo, cache, pub, nopLogger{})

	require.NoError(t, uc.Execute(context.Background(), DeleteTagInput{TagID: 12}))
	assert.Equal(t, []int64{12}, repo.deleted)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{"tag.deleted"}, pub.tagEvents)

	err := uc.Execute(context.Background(), DeleteTagInput{TagID: -3})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestMergeTags(t *testing.T) {
	repo := newFakeTagRepo()
	cache := &fakeTagCache{}
	pub := &fakePublisher{}
	uc := NewMergeTagsUseCase(repo, cache, pub, nopLogger{})

	err := uc.Execute(context.Background(), MergeTagsInput{SourceID: 2, TargetID: 5})
	require.NoError(t, err)
	assert.Equal(t, [][2]int64{{2, 5}}, repo.merged)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{"tag.merged"}, pub.tagEvents)
}

func TestMergeTags_Invalid(t *testing.T) {
	repo := newFakeTagRepo()
	uc := NewMergeTagsUseCase(repo, &fakeTagCache{}, &fakePublisher{}, nopLogger{})
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, MergeTagsInput{SourceID: 0, TargetID: 5}), apperror.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, MergeTagsInput{SourceID: 5, TargetID: -1}), apperror.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, MergeTagsInput{SourceID: 4, TargetID: 4}), apperror.ErrInvalidInput)
	assert.Empty(t, repo.merged)
}

func TestAssignImageTags_Dedupes(t *testing.T) {
	repo := newFakeTagRepo()
	imgRepo := &fakeImageRepo{images: map[int64]image.Image{9: {ID: 9, Src: "a.jpg", Width: 10, Height: 10}}}
	pub := &fakePublisher{}
	uc := NewAssignImageTagsUseCase(repo, imgRepo, pub, nopLogger{})

	err := uc.Execute(context.Background(), AssignImageTagsInput{ImageID: 9, TagIDs: []int64{3, 1, 3, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, repo.assigned[9])
	assert.Equal(t, []string{"image.tags_assigned"}, pub.imageEvents)
}

func TestAssignImageTags_ImageMissing(t *testing.T) {
	uc := NewAssignImageTagsUseCase(newFakeTagRepo(), &fakeImageRepo{images: map[int64]image.Image{}}, &fakePublisher{}, nopLogger{})

	err := uc.Execute(context.Background(), AssignImageTagsInput{ImageID: 404, TagIDs: []int64{1}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAssignImageTags_Invalid(t *testing.T) {
	uc := NewAssignImageTagsUseCase(newFakeTagRepo(), &fakeImageRepo{}, &fakePublisher{}, nopLogger{})
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, AssignImageTagsInput{ImageID: 0, TagIDs: []int64{1}}), apperror.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, AssignImageTagsInput{ImageID: 5, TagIDs: []int64{1, -2}}), apperror.ErrInvalidInput)
}

func TestListTags_ReadThroughCache(t *testing.T) {
	repo := newFakeTagRepo()
	repo.listResult = []tag.Tag{{ID: 1, Name: "alps"}, {ID: 2, Name: "zebra"}}
	cache := &fakeTagCache{}
	uc := NewListTagsUseCase(repo, cache, nopLogger{})
	ctx := context.Background()

	// Miss: store consulted, cache repopulated.
	out, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, repo.listResult, out.Tags)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	// Hit: store untouched.
	out, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, repo.listResult, out.Tags)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListTags_CacheFailureFallsBack(t *testing.T) {
	repo := newFakeTagRepo()
	repo.listResult = []tag.Tag{{ID: 1, Name: "alps"}}
	cache := &fakeTagCache{getErr: assert.AnError}
	uc := NewListTagsUseCase(repo, cache, nopLogger{})

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repo.listResult, out.Tags)
	assert.Equal(t, 1, repo.listCalls)
}
