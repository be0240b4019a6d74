package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/pictag/internal/domain/catalog"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type testLogger struct{}

func (testLogger) Debug(string, ...zap.Field)        {}
func (testLogger) Info(string, ...zap.Field)         {}
func (testLogger) Warn(string, ...zap.Field)         {}
func (testLogger) Error(string, error, ...zap.Field) {}
func (testLogger) Fatal(string, error, ...zap.Field) {}
func (l testLogger) With(...zap.Field) logger.Logger { return l }

type CatalogRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool       *pgxpool.Pool
	pgContainer  *postgres.PostgresContainer
	catalogStore catalog.Store
	tagRepo      tag.Repository
	imageRepo    image.Repository
}

func (s *CatalogRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.catalogStore = NewPostgresCatalogStore(pool, testLogger{})
	s.tagRepo = NewPostgresTagRepo(pool, testLogger{})
	s.imageRepo = NewPostgresImageRepo(pool, testLogger{})
}

func (s *CatalogRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *CatalogRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE image_tags, images, tags RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func TestCatalogRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(CatalogRepoIntegrationTestSuite))
}

// seed registers images and tags and wires the given associations. The
// returned maps go from seed label to store-assigned id.
func (s *CatalogRepoIntegrationTestSuite) seed(srcs []string, tagNames []string, assoc map[string][]string) (map[string]int64, map[string]int64) {
	ctx := context.Background()

	imageIDs := make(map[string]int64, len(srcs))
	for _, src := range srcs {
		img := &image.Image{Src: src, Width: 1920, Height: 1080}
		s.Require().NoError(s.imageRepo.Save(ctx, img))
		imageIDs[src] = img.ID
	}

	tagIDs := make(map[string]int64, len(tagNames))
	for _, name := range tagNames {
		t, err := s.tagRepo.Create(ctx, name)
		s.Require().NoError(err)
		tagIDs[name] = t.ID
	}

	for src, names := range assoc {
		ids := make([]int64, len(names))
		for i, name := range names {
			ids[i] = tagIDs[name]
		}
		s.Require().NoError(s.tagRepo.SetTagsForImage(ctx, imageIDs[src], ids))
	}
	return imageIDs, tagIDs
}

func (s *CatalogRepoIntegrationTestSuite) Test_FindImageIDsWithAllTags_Intersection() {
	ctx := context.Background()
	imageIDs, tagIDs := s.seed(
		[]string{"a.jpg", "b.jpg", "c.jpg"},
		[]string{"landscape", "night"},
		map[string][]string{
			"a.jpg": {"landscape", "night"},
			"b.jpg": {"landscape"},
			"c.jpg": {"night"},
		},
	)

	ids, err := s.catalogStore.FindImageIDsWithAllTags(ctx, []int64{tagIDs["landscape"], tagIDs["night"]})
	s.Require().NoError(err)
	s.Equal([]int64{imageIDs["a.jpg"]}, ids)

	ids, err = s.catalogStore.FindImageIDsWithAllTags(ctx, []int64{tagIDs["landscape"]})
	s.Require().NoError(err)
	s.Equal([]int64{imageIDs["a.jpg"], imageIDs["b.jpg"]}, ids)
}

func (s *CatalogRepoIntegrationTestSuite) Test_FindImageIDsWithAllTags_OrderedAscending() {
	ctx := context.Background()
	_, tagIDs := s.seed(
		[]string{"z.jpg", "y.jpg", "x.jpg", "w.jpg"},
		[]string{"shared"},
		map[string][]string{
			"z.jpg": {"shared"},
			"y.jpg": {"shared"},
			"x.jpg": {"shared"},
			"w.jpg": {"shared"},
		},
	)

	ids, err := s.catalogStore.FindImageIDsWithAllTags(ctx, []int64{tagIDs["shared"]})
	s.Require().NoError(err)
	s.Require().Len(ids, 4)
	for i := 1; i < len(ids); i++ {
		s.Less(ids[i-1], ids[i])
	}
}

func (s *CatalogRepoIntegrationTestSuite) Test_FindUntaggedImages_AntiJoin() {
	ctx := context.Background()
	imageIDs, _ := s.seed(
		[]string{"tagged.jpg", "untagged.jpg"},
		[]string{"misc"},
		map[string][]string{"tagged.jpg": {"misc"}},
	)

	images, err := s.catalogStore.FindUntaggedImages(ctx)
	s.Require().NoError(err)
	s.Require().Len(images, 1)
	s.Equal(imageIDs["untagged.jpg"], images[0].ID)
	s.Equal("untagged.jpg", images[0].Src)
}

func (s *CatalogRepoIntegrationTestSuite) Test_FindTagsForImages_BulkJoinOrdered() {
	ctx := context.Background()
	imageIDs, tagIDs := s.seed(
		[]string{"a.jpg", "b.jpg"},
		[]string{"zebra", "alps", "night"},
		map[string][]string{
			"a.jpg": {"zebra", "alps"},
			"b.jpg": {"night"},
		},
	)

	tagsByImage, err := s.catalogStore.FindTagsForImages(ctx, []int64{imageIDs["a.jpg"], imageIDs["b.jpg"]})
	s.Require().NoError(err)
	s.Require().Len(tagsByImage, 2)

	aTags := tagsByImage[imageIDs["a.jpg"]]
	s.Require().Len(aTags, 2)
	s.Equal("alps", aTags[0].Name)
	s.Equal("zebra", aTags[1].Name)
	s.Equal(tagIDs["alps"], aTags[0].ID)

	bTags := tagsByImage[imageIDs["b.jpg"]]
	s.Require().Len(bTags, 1)
	s.Equal("night", bTags[0].Name)
}

func (s *CatalogRepoIntegrationTestSuite) Test_FindImagesByIDs() {
	ctx := context.Background()
	imageIDs, _ := s.seed([]string{"a.jpg", "b.jpg", "c.jpg"}, nil, nil)

	images, err := s.catalogStore.FindImagesByIDs(ctx, []int64{imageIDs["a.jpg"], imageIDs["c.jpg"]})
	s.Require().NoError(err)
	s.Require().Len(images, 2)

	srcs := map[string]bool{}
	for _, img := range images {
		srcs[img.Src] = true
	}
	s.True(srcs["a.jpg"])
	s.True(srcs["c.jpg"])

	images, err = s.catalogStore.FindImagesByIDs(ctx, nil)
	s.Require().NoError(err)
	s.Empty(images)
}

func (s *CatalogRepoIntegrationTestSuite) Test_Merge_RepointsAndDeduplicates() {
	ctx := context.Background()
	imageIDs, tagIDs := s.seed(
		[]string{"both.jpg", "only-src.jpg"},
		[]string{"src-tag", "dst-tag"},
		map[string][]string{
			"both.jpg":     {"src-tag", "dst-tag"},
			"only-src.jpg": {"src-tag"},
		},
	)

	err := s.tagRepo.Merge(ctx, tagIDs["src-tag"], tagIDs["dst-tag"])
	s.Require().NoError(err)

	// Source tag is gone.
	_, err = s.tagRepo.FindByID(ctx, tagIDs["src-tag"])
	s.ErrorIs(err, apperror.ErrNotFound)

	// both.jpg keeps a single dst-tag association, only-src.jpg was re-pointed.
	for _, src := range []string{"both.jpg", "only-src.jpg"} {
		tags, err := s.tagRepo.GetTagsForImage(ctx, imageIDs[src])
		s.Require().NoError(err)
		s.Require().Len(tags, 1, "image %s", src)
		s.Equal("dst-tag", tags[0].Name)
	}
}

func (s *CatalogRepoIntegrationTestSuite) Test_SetTagsForImage_ReplacesSet() {
	ctx := context.Background()
	imageIDs, tagIDs := s.seed(
		[]string{"a.jpg"},
		[]string{"old", "new1", "new2"},
		map[string][]string{"a.jpg": {"old"}},
	)

	err := s.tagRepo.SetTagsForImage(ctx, imageIDs["a.jpg"], []int64{tagIDs["new1"], tagIDs["new2"]})
	s.Require().NoError(err)

	tags, err := s.tagRepo.GetTagsForImage(ctx, imageIDs["a.jpg"])
	s.Require().NoError(err)
	s.Require().Len(tags, 2)
	s.Equal("new1", tags[0].Name)
	s.Equal("new2", tags[1].Name)

	// Empty set clears everything.
	s.Require().NoError(s.tagRepo.SetTagsForImage(ctx, imageIDs["a.jpg"], nil))
	tags, err = s.tagRepo.GetTagsForImage(ctx, imageIDs["a.jpg"])
	s.Require().NoError(err)
	s.Empty(tags)
}

func (s *CatalogRepoIntegrationTestSuite) Test_DeleteImage_CascadesAssociations() {
	ctx := context.Background()
	imageIDs, tagIDs := s.seed(
		[]string{"doomed.jpg"},
		[]string{"keep"},
		map[string][]string{"doomed.jpg": {"keep"}},
	)

	s.Require().NoError(s.imageRepo.Delete(ctx, imageIDs["doomed.jpg"]))

	var count int
	err := s.dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM image_tags`).Scan(&count)
	s.Require().NoError(err)
	s.Zero(count, "association must not outlive its image")

	// The tag itself survives.
	_, err = s.tagRepo.FindByID(ctx, tagIDs["keep"])
	s.NoError(err)
}

func (s *CatalogRepoIntegrationTestSuite) Test_CreateTag_DuplicateNameConflicts() {
	ctx := context.Background()
	_, err := s.tagRepo.Create(ctx, "unique-name")
	s.Require().NoError(err)

	_, err = s.tagRepo.Create(ctx, "unique-name")
	s.ErrorIs(err, apperror.ErrConflict)
}
