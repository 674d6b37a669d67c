package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Fetcher --dir ../../external/apifootball --output external/apifootball --outpkg fetchermock --filename fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FootballData --dir ../usecase --output usecase --outpkg usecasemock --filename football_data_mock.go
