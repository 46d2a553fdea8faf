package view

import (
	"context"

	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/product"
	"github.com/coursekit/coursekit/internal/progress"
)

// UserView minimal owner identity
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LessonView lesson attributes plus the viewer's watch state
type LessonView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
	TimeWatched int    `json:"time_watched"`
	Completed   bool   `json:"completed"`
}

// ProductView product attributes with shaped owner and lessons
type ProductView struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Owner   *UserView     `json:"owner"`
	Lessons []*LessonView `json:"lessons"`
}

// Presenter shapes persisted entities into transfer representations,
// deriving the viewer's per-lesson watch state at read time. Progress is
// looked up once per call for the whole lesson set, never per lesson
type Presenter struct {
	LessonRepository   lesson.LessonRepository
	ProgressRepository progress.ProgressRepository
}

// NewPresenter ...
func NewPresenter(
	LessonRepository lesson.LessonRepository,
	ProgressRepository progress.ProgressRepository,
) *Presenter {
	return &Presenter{
		LessonRepository:   LessonRepository,
		ProgressRepository: ProgressRepository,
	}
}

// ShapeLessons shape lessons for the viewer, missing progress yields 0/false
func (p *Presenter) ShapeLessons(ctx context.Context, viewerID string, lessons []*lesson.LessonModel) ([]*LessonView, error) {
	watched, err := p.progressByLesson(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return shapeLessonSet(lessons, watched), nil
}

// ShapeProducts shape products for the viewer, including owner identity and
// shaped lessons of each product
func (p *Presenter) ShapeProducts(ctx context.Context, viewerID string, products []*product.ProductModel) ([]*ProductView, error) {
	productIDs := make([]string, len(products))
	for i, post := range products {
		productIDs[i] = post.ID
	}
	lessonsByProduct, err := p.LessonRepository.GetLessonsByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	watched, err := p.progressByLesson(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	result := make([]*ProductView, 0, len(products))
	for _, post := range products {
		result = append(result, &ProductView{
			ID:   post.ID,
			Name: post.Name,
			Owner: &UserView{
				ID:       post.OwnerID,
				Username: post.OwnerName,
			},
			Lessons: shapeLessonSet(lessonsByProduct[post.ID], watched),
		})
	}
	return result, nil
}

// ShapeProduct shape a single product
func (p *Presenter) ShapeProduct(ctx context.Context, viewerID string, post *product.ProductModel) (*ProductView, error) {
	shaped, err := p.ShapeProducts(ctx, viewerID, []*product.ProductModel{post})
	if err != nil {
		return nil, err
	}
	return shaped[0], nil
}

func (p *Presenter) progressByLesson(ctx context.Context, viewerID string) (map[string]*progress.ProgressModel, error) {
	records, err := p.ProgressRepository.FindByUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	watched := make(map[string]*progress.ProgressModel, len(records))
	for _, rec := range records {
		watched[rec.LessonID] = rec
	}
	return watched, nil
}

func shapeLessonSet(lessons []*lesson.LessonModel, watched map[string]*progress.ProgressModel) []*LessonView {
	result := make([]*LessonView, 0, len(lessons))
	for _, l := range lessons {
		item := &LessonView{
			ID:       l.ID,
			Name:     l.Name,
			VideoURL: l.VideoURL,
			Duration: l.Duration,
		}
		if rec, ok := watched[l.ID]; ok {
			item.TimeWatched = rec.TimeWatched
			item.Completed = rec.Completed
		}
		result = append(result, item)
	}
	return result
}
