package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword()
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		fmt.Println("Login unsuccessful:", a.session.AuthError())
		return
	}

	fmt.Println("Login successful")
	if err := a.collection.Load(ctx); err != nil {
		fmt.Println(err.Error())
	}
}

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword()
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	gpuEndpoint, err := GetSimpleText(a.reader, "Enter identification endpoint (host or IP, optional)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.session.Register(ctx, email, password, gpuEndpoint); err != nil {
		fmt.Println("Registration unsuccessful:", a.session.AuthError())
		return
	}

	fmt.Println("Registration successful, please log in")
}

func (a *App) logout(ctx context.Context) {
	a.session.Logout(ctx)
	if err := a.collection.Load(ctx); err != nil {
		fmt.Println(err.Error())
	}
	fmt.Println("Logged out")
}
