package resource_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperpulse/internal/apiclient"
	"paperpulse/internal/entity"
	"paperpulse/internal/query"
	"paperpulse/internal/resource"
	"paperpulse/internal/resource/mocks"
	"paperpulse/internal/schema"
)

func strPtr(s string) *string { return &s }

func fillAuthors(items ...entity.Author) func(context.Context, string, schema.Schema, any) error {
	return func(_ context.Context, _ string, _ schema.Schema, out any) error {
		*out.(*[]entity.Author) = items
		return nil
	}
}

func TestAuthors_ListAllServesFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	api.EXPECT().
		Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).
		DoAndReturn(fillAuthors(entity.Author{ID: 1, Name: "Ada", Email: "ada@example.com"})).
		Times(1)

	first, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	second, err := authors.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, query.Fresh, authors.ListState())

	// callers get their own copy
	first[0].Name = "changed"
	third, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", third[0].Name)
}

func TestAuthors_ListAllCopiesPointerFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	api.EXPECT().
		Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).
		DoAndReturn(fillAuthors(entity.Author{ID: 1, Name: "Ada", Email: "ada@example.com", Bio: strPtr("Analyst")})).
		Times(1)

	first, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	*first[0].Bio = "changed"

	second, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second[0].Bio)
	assert.Equal(t, "Analyst", *second[0].Bio)
}

func TestPapers_GetByIDCopiesPointerFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	papers := resource.NewPapers(api, query.New(query.Config{}))

	api.EXPECT().
		Get(gomock.Any(), "/papers/7", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ schema.Schema, out any) error {
			*out.(*entity.Paper) = entity.Paper{ID: 7, Title: "Graphs", DOI: "10.1/g", AuthorID: 2, Abstract: strPtr("On graphs")}
			return nil
		}).
		Times(1)

	first, err := papers.GetByID(context.Background(), 7)
	require.NoError(t, err)
	*first.Abstract = "changed"

	second, err := papers.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, second.Abstract)
	assert.Equal(t, "On graphs", *second.Abstract)
}

func TestAuthors_ConcurrentListAllSharesOneRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	release := make(chan struct{})
	api.EXPECT().
		Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, path string, s schema.Schema, out any) error {
			<-release
			*out.(*[]entity.Author) = []entity.Author{{ID: 1, Name: "Ada", Email: "ada@example.com"}}
			return nil
		}).
		Times(1)

	var wg sync.WaitGroup
	results := make([][]entity.Author, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = authors.ListAll(context.Background())
		}(i)
		if i == 0 {
			require.Eventually(t, func() bool {
				return authors.ListState() == query.Pending
			}, time.Second, time.Millisecond)
		}
	}
	close(release)
	wg.Wait()

	for i := range 2 {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
}

func TestAuthors_GetByIDDisabledForInvalidIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	cache := query.New(query.Config{})
	authors := resource.NewAuthors(api, cache)

	// no EXPECT: any call fails the test
	for _, id := range []int{0, -1} {
		_, err := authors.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, resource.ErrDisabled)
	}
	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := authors.GetByParam(context.Background(), raw)
		assert.ErrorIs(t, err, resource.ErrDisabled, "raw=%q", raw)
	}
	_, err := authors.RefetchByID(context.Background(), 0)
	assert.ErrorIs(t, err, resource.ErrDisabled)
	assert.Equal(t, 0, cache.Len())
}

func TestPapers_GetByParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	papers := resource.NewPapers(api, query.New(query.Config{}))

	api.EXPECT().
		Get(gomock.Any(), "/papers/7", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ schema.Schema, out any) error {
			*out.(*entity.Paper) = entity.Paper{ID: 7, Title: "Graphs", DOI: "10.1/g", AuthorID: 2}
			return nil
		})

	p, err := papers.GetByParam(context.Background(), " 7 ")
	require.NoError(t, err)
	assert.Equal(t, "Graphs", p.Title)
	assert.Equal(t, query.Fresh, papers.State(7))
}

func TestAuthors_CreateInvalidatesList(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	ada := entity.Author{ID: 1, Name: "Ada", Email: "ada@example.com"}
	grace := entity.Author{ID: 2, Name: "Grace", Email: "grace@example.com", Bio: strPtr("COBOL")}

	gomock.InOrder(
		api.EXPECT().Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).DoAndReturn(fillAuthors(ada)),
		api.EXPECT().
			Post(gomock.Any(), "/authors/", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, body any, _ schema.Schema, out any) error {
				in := body.(entity.AuthorCreate)
				assert.Equal(t, "Grace", in.Name)
				*out.(*entity.Author) = grace
				return nil
			}),
		api.EXPECT().Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).DoAndReturn(fillAuthors(ada, grace)),
	)

	_, err := authors.ListAll(context.Background())
	require.NoError(t, err)

	created, err := authors.Create(context.Background(), entity.AuthorCreate{Name: "Grace", Email: "grace@example.com", Bio: strPtr("COBOL")})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)
	assert.Equal(t, query.Stale, authors.ListState())

	list, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, list, grace)
}

func TestPapers_FailedCreateLeavesCacheAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	papers := resource.NewPapers(api, query.New(query.Config{}))

	api.EXPECT().
		Get(gomock.Any(), "/papers/", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ schema.Schema, out any) error {
			*out.(*[]entity.Paper) = []entity.Paper{}
			return nil
		})
	notFound := &apiclient.TransportError{Method: "POST", Path: "/papers/", StatusCode: 404, Body: []byte(`{"message":"Author not found","status_code":404}`)}
	api.EXPECT().
		Post(gomock.Any(), "/papers/", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(notFound)

	_, err := papers.ListAll(context.Background())
	require.NoError(t, err)

	_, err = papers.Create(context.Background(), entity.PaperCreate{Title: "T", DOI: "10.1/t", AuthorID: 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, notFound) || apiclient.IsStatus(err, 404))
	assert.Equal(t, "Author not found", apiclient.ErrorMessage(err))
	assert.Equal(t, query.Fresh, papers.ListState())
}

func TestAuthors_RefetchBypassesFreshList(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	gomock.InOrder(
		api.EXPECT().Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).DoAndReturn(fillAuthors()),
		api.EXPECT().Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).
			DoAndReturn(fillAuthors(entity.Author{ID: 3, Name: "Edsger", Email: "ed@example.com"})),
	)

	list, err := authors.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = authors.Refetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAuthors_ListErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	authors := resource.NewAuthors(api, query.New(query.Config{}))

	mismatch := &apiclient.SchemaValidationError{Method: "GET", Path: "/authors/", Schema: "[]Author"}
	api.EXPECT().Get(gomock.Any(), "/authors/", gomock.Any(), gomock.Any()).Return(mismatch)

	list, err := authors.ListAll(context.Background())
	assert.Nil(t, list)
	var sve *apiclient.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, query.Failed, authors.ListState())
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := resource.ParseID(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}
