package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilespeak/tilespeak-server/internal/http/response"
	"github.com/tilespeak/tilespeak-server/internal/service"
)

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.services.Boards.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBoardRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := s.services.Boards.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, board)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.services.Boards.Get(r.Context(), getUserID(r.Context()), chi.URLParam(r, "boardID"))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

func (s *Server) handleBoardEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Boards.Entries(r.Context(), getUserID(r.Context()), chi.URLParam(r, "boardID"))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}

func (s *Server) handleFirstBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.services.Boards.First(r.Context(), getUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateBoardRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := s.services.Boards.Update(r.Context(), getUserID(r.Context()), chi.URLParam(r, "boardID"), req)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Boards.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "boardID")); err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.Message(w, http.StatusOK, "board deleted")
}

func (s *Server) handleAddChoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChoiceID string `json:"choiceId"`
	}
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChoiceID == "" {
		response.Error(w, http.StatusBadRequest, "choiceId is required")
		return
	}

	board, err := s.services.Boards.AddChoice(r.Context(), getUserID(r.Context()), chi.URLParam(r, "boardID"), req.ChoiceID)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}

func (s *Server) handleRemoveChoice(w http.ResponseWriter, r *http.Request) {
	board, err := s.services.Boards.RemoveChoice(r.Context(), getUserID(r.Context()),
		chi.URLParam(r, "boardID"), chi.URLParam(r, "choiceID"))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}

func (s *Server) handleAddCustomEntry(w http.ResponseWriter, r *http.Request) {
	form, err := parseImageForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	defer form.file.Close()

	board, err := s.services.Boards.AddCustomEntry(r.Context(), getUserID(r.Context()),
		chi.URLParam(r, "boardID"), form.phrase, form.filename, form.contentType, form.file)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}

func (s *Server) handleRemoveCustomEntry(w http.ResponseWriter, r *http.Request) {
	board, err := s.services.Boards.RemoveCustomEntry(r.Context(), getUserID(r.Context()),
		chi.URLParam(r, "boardID"), chi.URLParam(r, "customID"))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}
