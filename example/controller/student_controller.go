package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/example/model"
	"github.com/SaiNageswarS/go-mini-boot/example/service"
	"github.com/SaiNageswarS/go-mini-boot/web"
)

const Namespace = "example/controller"

type StudentController struct {
	studentService *service.StudentService
}

func (c *StudentController) getAllStudents(_ *web.Request) (web.Response, error) {
	return web.JSON(c.studentService.GetAllStudents()), nil
}

func (c *StudentController) getStudentByID(req *web.Request) (web.Response, error) {
	student, ok := c.studentService.GetStudentByID(req.Param("id"))
	if !ok {
		return web.ErrorMessage("Student not found"), nil
	}
	return web.JSON(student), nil
}

func (c *StudentController) addStudent(req *web.Request) (web.Response, error) {
	id := req.Param("id")
	if id == "" {
		return nil, errors.New("id is required")
	}
	year, err := strconv.Atoi(req.Param("year"))
	if err != nil {
		return nil, fmt.Errorf("invalid year %q: %w", req.Param("year"), err)
	}

	student := c.studentService.AddStudent(model.Student{ID: id, Name: req.Param("name"), Year: year})
	return web.JSON(student), nil
}

func Components() []discovery.Descriptor {
	return []discovery.Descriptor{
		discovery.Define[StudentController](Namespace, discovery.Controller).
			Autowired(discovery.Wire("studentService", "",
				func(c *StudentController, s *service.StudentService) { c.studentService = s })).
			GET("/students", "getAllStudents", (*StudentController).getAllStudents).
			GET("/students/{id}", "getStudentById", (*StudentController).getStudentByID).
			POST("/students", "addStudent", (*StudentController).addStudent).
			Descriptor(),
	}
}
