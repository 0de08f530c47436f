package handler

import (
	"net/http"

	"tenantnotes/internal/contract"
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils"
	"tenantnotes/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SubscriptionService interface {
	GetSubscription(actor *entity.User) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	UpdatePlan(actor *entity.User, req *contract.UpdatePlanRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	GetUsage(actor *entity.User) (*contract.UsageResponse, apierror.ErrorResponse)
}

type DefaultSubscriptionRoute struct {
	SubService SubscriptionService
}

func NewSubscriptionDefault(subService SubscriptionService) *DefaultSubscriptionRoute {
	return &DefaultSubscriptionRoute{SubService: subService}
}

func (s *DefaultSubscriptionRoute) GetSubscription(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := s.SubService.GetSubscription(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *DefaultSubscriptionRoute) UpdatePlan(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdatePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := s.SubService.UpdatePlan(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *DefaultSubscriptionRoute) GetUsage(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := s.SubService.GetUsage(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
