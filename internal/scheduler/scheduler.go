package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type TemplateStorage interface {
	ListActiveTemplates(ctx context.Context) ([]*storage.Template, error)
}

type BlankCreator interface {
	CreateFromTemplate(ctx context.Context, templateID int64, date string, shiftID *int64, createdBy *int64) (*storage.Blank, []*storage.Record, error)
}

// Scheduler по расписанию создаёт бланки на текущую дату по всем
// активным шаблонам, применимым к дню недели.
type Scheduler struct {
	cron      *cron.Cron
	templates TemplateStorage
	blanks    BlankCreator
	spec      string
	log       *slog.Logger
}

func New(spec string, templates TemplateStorage, blanks BlankCreator, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		templates: templates,
		blanks:    blanks,
		spec:      spec,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	const op = "scheduler.Start"

	_, err := s.cron.AddFunc(s.spec, s.createDailyBlanks)
	if err != nil {
		s.log.Error("не удалось зарегистрировать задачу создания бланков",
			slog.String("op", op), slog.String("spec", s.spec), slog.String("error", err.Error()))
		return err
	}

	s.cron.Start()
	s.log.Info("планировщик запущен", slog.String("spec", s.spec))

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("планировщик остановлен")
}

func (s *Scheduler) createDailyBlanks() {
	const op = "scheduler.createDailyBlanks"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	date := now.Format("2006-01-02")
	weekday := now.Weekday()

	templates, err := s.templates.ListActiveTemplates(ctx)
	if err != nil {
		s.log.Error("не удалось получить активные шаблоны",
			slog.String("op", op), slog.String("error", err.Error()))
		return
	}

	created, skipped := 0, 0
	for _, tpl := range templates {
		if !tpl.ApplicableFor(weekday) {
			continue
		}

		_, _, err := s.blanks.CreateFromTemplate(ctx, tpl.ID, date, nil, nil)
		if err != nil {
			// Бланк мог быть создан вручную раньше
			if errors.Is(err, storage.ErrDuplicateBlank) {
				skipped++
				continue
			}
			s.log.Error("не удалось создать бланк по шаблону",
				slog.String("op", op), slog.Int64("template_id", tpl.ID),
				slog.String("error", err.Error()))
			continue
		}
		created++
	}

	s.log.Info("бланки на сегодня созданы по шаблонам",
		slog.String("date", date), slog.Int("created", created), slog.Int("skipped", skipped))
}
