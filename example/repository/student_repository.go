package repository

import (
	"sync"

	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/example/model"
)

const Namespace = "example/repository"

type StudentRepository interface {
	FindAll() []model.Student
	FindByID(id string) (model.Student, bool)
	Save(student model.Student)
}

// InMemoryStudentRepository keeps students in insertion order. The zero
// value is ready to use.
type InMemoryStudentRepository struct {
	mu       sync.RWMutex
	order    []string
	students map[string]model.Student
}

func (r *InMemoryStudentRepository) FindAll() []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Student, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.students[id])
	}
	return out
}

func (r *InMemoryStudentRepository) FindByID(id string) (model.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[id]
	return s, ok
}

// Save inserts or replaces the student with the same ID.
func (r *InMemoryStudentRepository) Save(student model.Student) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.students == nil {
		r.students = map[string]model.Student{}
	}
	if _, exists := r.students[student.ID]; !exists {
		r.order = append(r.order, student.ID)
	}
	r.students[student.ID] = student
}

func Components() []discovery.Descriptor {
	return []discovery.Descriptor{
		discovery.Abstract[StudentRepository](Namespace),
		discovery.Define[InMemoryStudentRepository](Namespace, discovery.Component).
			Qualified("inMemory", discovery.TypeOf[StudentRepository]()).
			Descriptor(),
	}
}
