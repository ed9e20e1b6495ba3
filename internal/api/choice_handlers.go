package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/tilespeak/tilespeak-server/internal/http/response"
)

// maxImageUpload caps tile image uploads at 10 MiB.
const maxImageUpload = 10 << 20

// imageForm is the parsed multipart payload for tile creation.
type imageForm struct {
	phrase      string
	category    string
	filename    string
	contentType string
	file        multipart.File
}

func parseImageForm(r *http.Request) (*imageForm, error) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		return nil, errors.New("invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, errors.New("image file is required")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &imageForm{
		phrase:      r.FormValue("phrase"),
		category:    r.FormValue("category"),
		filename:    header.Filename,
		contentType: contentType,
		file:        file,
	}, nil
}

func (s *Server) handleCreateCustomChoice(w http.ResponseWriter, r *http.Request) {
	form, err := parseImageForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	defer form.file.Close()

	choice, err := s.services.Choices.CreateCustom(r.Context(), getUserID(r.Context()),
		form.phrase, form.category, form.filename, form.contentType, form.file)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, choice)
}

func (s *Server) handleListChoices(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Choices.ListVisible(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, views)
}
