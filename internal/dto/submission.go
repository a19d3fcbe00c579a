package dto

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/utils"
)

// SubmissionListResponse is a paginated submission listing
type SubmissionListResponse struct {
	Submissions []models.Submission      `json:"submissions"`
	Pagination  utils.PaginationResponse `json:"pagination"`
}

// ToSubmissionListResponse builds the paginated envelope
func ToSubmissionListResponse(submissions []models.Submission, params utils.PaginationParams, total int64) SubmissionListResponse {
	return SubmissionListResponse{
		Submissions: submissions,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Size:  params.Size,
			Total: total,
		},
	}
}
