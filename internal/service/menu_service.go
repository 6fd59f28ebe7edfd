package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
)

type MenuService interface {
	List(ctx context.Context, q string) ([]models.MessMenu, error)
	Get(ctx context.Context, id uuid.UUID) (*models.MessMenu, error)
	Create(ctx context.Context, req dto.MenuRequest) (*models.MessMenu, error)
	Update(ctx context.Context, id uuid.UUID, req dto.MenuRequest) (*models.MessMenu, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Today(ctx context.Context) (*dto.TodayMenuResponse, error)
}

type menuService struct {
	menus repository.MenuRepository
	pub   realtime.Publisher
	now   func() time.Time
}

func NewMenuService(menus repository.MenuRepository, pub realtime.Publisher) MenuService {
	return &menuService{menus: menus, pub: pub, now: time.Now}
}

func MenuSearchFields(m models.MessMenu) []string {
	return []string{m.DayOfWeek, string(m.MealType), dto.MenuItemsText(m.Items)}
}

// sortMenus orders monday to sunday, then by serving time.
func sortMenus(menus []models.MessMenu) {
	slices.SortStableFunc(menus, func(a, b models.MessMenu) int {
		if c := cmp.Compare(domain.DayIndex(a.DayOfWeek), domain.DayIndex(b.DayOfWeek)); c != 0 {
			return c
		}
		return cmp.Compare(domain.MealIndex(a.MealType), domain.MealIndex(b.MealType))
	})
}

func (s *menuService) List(ctx context.Context, q string) ([]models.MessMenu, error) {
	menus, err := s.menus.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	sortMenus(menus)
	return domain.Filter(menus, q, MenuSearchFields), nil
}

func (s *menuService) Get(ctx context.Context, id uuid.UUID) (*models.MessMenu, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return menu, nil
}

func validateMenu(req dto.MenuRequest) (string, models.MealType, error) {
	day := domain.NormalizeDay(req.DayOfWeek)
	if !domain.ValidDay(day) {
		return "", "", ErrInvalidDay
	}
	meal := models.MealType(domain.NormalizeDay(req.MealType))
	if !domain.ValidMealType(meal) {
		return "", "", ErrInvalidMeal
	}
	return day, meal, nil
}

func (s *menuService) Create(ctx context.Context, req dto.MenuRequest) (*models.MessMenu, error) {
	day, meal, err := validateMenu(req)
	if err != nil {
		return nil, err
	}
	menu := &models.MessMenu{DayOfWeek: day, MealType: meal, Items: req.Items}
	if err := s.menus.Create(ctx, menu); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrMenuExists
		}
		return nil, fmt.Errorf("create menu: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableMessMenu, realtime.Insert, dto.ToMenuResponse(menu), nil)
	return menu, nil
}

func (s *menuService) Update(ctx context.Context, id uuid.UUID, req dto.MenuRequest) (*models.MessMenu, error) {
	day, meal, err := validateMenu(req)
	if err != nil {
		return nil, err
	}
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := dto.ToMenuResponse(menu)
	menu.DayOfWeek, menu.MealType, menu.Items = day, meal, req.Items
	if err := s.menus.Update(ctx, menu); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrMenuExists
		}
		return nil, fmt.Errorf("update menu: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableMessMenu, realtime.Update, dto.ToMenuResponse(menu), old)
	return menu, nil
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID) error {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.menus.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrMenuNotFound
		}
		return fmt.Errorf("delete menu: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableMessMenu, realtime.Delete, nil, dto.ToMenuResponse(menu))
	return nil
}

func (s *menuService) Today(ctx context.Context) (*dto.TodayMenuResponse, error) {
	now := s.now()
	day := domain.DayOf(now)
	menus, err := s.menus.List(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list today's menu: %w", err)
	}
	sortMenus(menus)
	return &dto.TodayMenuResponse{
		Day:         day,
		CurrentMeal: domain.CurrentMeal(now),
		Meals:       dto.MapSlice(menus, dto.ToMenuResponse),
	}, nil
}
