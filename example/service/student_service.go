package service

import (
	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/example/model"
	"github.com/SaiNageswarS/go-mini-boot/example/repository"
)

const Namespace = "example/service"

type StudentService struct {
	studentRepository repository.StudentRepository
}

func (s *StudentService) GetAllStudents() []model.Student {
	return s.studentRepository.FindAll()
}

func (s *StudentService) GetStudentByID(id string) (model.Student, bool) {
	return s.studentRepository.FindByID(id)
}

func (s *StudentService) AddStudent(student model.Student) model.Student {
	s.studentRepository.Save(student)
	return student
}

func Components() []discovery.Descriptor {
	return []discovery.Descriptor{
		discovery.Define[StudentService](Namespace, discovery.Service).
			Autowired(discovery.Wire("studentRepository", "inMemory",
				func(s *StudentService, r repository.StudentRepository) { s.studentRepository = r }).Verbose()).
			Descriptor(),
	}
}
